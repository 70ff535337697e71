package models

import "time"

const (
	DeliverySuccess = "SUCCESS"
	DeliveryFailed  = "FAILED"
	DeliveryPending = "PENDING"
)

type WebhookEndpoint struct {
	WebhookID string    `json:"webhook_id"`
	URL       string    `json:"url"`
	Events    []string  `json:"events"`
	Active    bool      `json:"active"`
	// Secret comes back masked from the gateway; it is shown once on creation.
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type WebhookDelivery struct {
	DeliveryID   string    `json:"delivery_id"`
	WebhookID    string    `json:"webhook_id"`
	Event        string    `json:"event"`
	Status       string    `json:"status"`
	Attempts     int       `json:"attempts"`
	ResponseCode int       `json:"response_code"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}

type WebhookList struct {
	Results []WebhookEndpoint `json:"results"`
	Count   int               `json:"count"`
}

type DeliveryList struct {
	Results []WebhookDelivery `json:"results"`
	Count   int               `json:"count"`
}
