package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"payment-operations-console/internal/models"
)

type WebhooksAPI struct {
	c *Client
}

func (c *Client) Webhooks() *WebhooksAPI {
	return &WebhooksAPI{c: c}
}

func (a *WebhooksAPI) List(ctx context.Context) (models.WebhookList, error) {
	body, _, err := a.c.do(ctx, "GET", "/webhooks/", nil, nil)
	if err != nil {
		return models.WebhookList{}, err
	}
	results, count, err := decodeList[models.WebhookEndpoint](body)
	if err != nil {
		return models.WebhookList{}, fmt.Errorf("decoding webhook list: %w", err)
	}
	return models.WebhookList{Results: results, Count: count}, nil
}

func (a *WebhooksAPI) Create(ctx context.Context, endpointURL string, events []string) (models.WebhookEndpoint, error) {
	var wh models.WebhookEndpoint
	err := a.c.postJSON(ctx, "/webhooks/", map[string]interface{}{
		"url":    endpointURL,
		"events": events,
	}, &wh)
	return wh, err
}

func (a *WebhooksAPI) Update(ctx context.Context, webhookID string, active bool, events []string) (models.WebhookEndpoint, error) {
	var wh models.WebhookEndpoint
	err := a.c.putJSON(ctx, "/webhooks/"+url.PathEscape(webhookID)+"/", map[string]interface{}{
		"active": active,
		"events": events,
	}, &wh)
	return wh, err
}

func (a *WebhooksAPI) Delete(ctx context.Context, webhookID string) error {
	return a.c.delete(ctx, "/webhooks/"+url.PathEscape(webhookID)+"/")
}

func (a *WebhooksAPI) Deliveries(ctx context.Context, webhookID string) (models.DeliveryList, error) {
	body, _, err := a.c.do(ctx, "GET", "/webhooks/"+url.PathEscape(webhookID)+"/deliveries/", nil, nil)
	if err != nil {
		return models.DeliveryList{}, err
	}
	results, count, err := decodeList[models.WebhookDelivery](body)
	if err != nil {
		return models.DeliveryList{}, fmt.Errorf("decoding delivery list: %w", err)
	}
	return models.DeliveryList{Results: results, Count: count}, nil
}

// TestFire asks the gateway to send a test event to the endpoint.
func (a *WebhooksAPI) TestFire(ctx context.Context, webhookID string) error {
	return a.c.postJSON(ctx, "/webhooks/"+url.PathEscape(webhookID)+"/test/", nil, nil)
}
