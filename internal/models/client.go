package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ClientActive    = "ACTIVE"
	ClientSuspended = "SUSPENDED"
	ClientInactive  = "INACTIVE"
)

// ClientAccount is a merchant onboarded on the gateway.
type ClientAccount struct {
	ClientCode string    `json:"client_code"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	KYCStatus  string    `json:"kyc_status"`
	CreatedAt  time.Time `json:"created_at"`
}

type ClientList struct {
	Results []ClientAccount `json:"results"`
	Count   int             `json:"count"`
}

// FeeConfiguration is the fee schedule applied to a client's transactions.
type FeeConfiguration struct {
	FeeID         string          `json:"fee_id"`
	ClientCode    string          `json:"client_code"`
	PaymentMethod string          `json:"payment_method"`
	FeePercent    decimal.Decimal `json:"fee_percent"`
	FlatFee       decimal.Decimal `json:"flat_fee"`
	GSTPercent    decimal.Decimal `json:"gst_percent"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to"`
}

type FeeList struct {
	Results []FeeConfiguration `json:"results"`
	Count   int                `json:"count"`
}

// Zone is one access-control zone rule.
type Zone struct {
	ZoneID      string   `json:"zone_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IPRanges    []string `json:"ip_ranges"`
	Roles       []string `json:"roles"`
	Active      bool     `json:"active"`
}

type ZoneList struct {
	Results []Zone `json:"results"`
	Count   int    `json:"count"`
}
