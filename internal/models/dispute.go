package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DisputeOpen          = "OPEN"
	DisputeInvestigating = "INVESTIGATING"
	DisputeResolved      = "RESOLVED"
	DisputeRejected      = "REJECTED"
	DisputeEscalated     = "ESCALATED"
)

type Dispute struct {
	DisputeID  string          `json:"dispute_id"`
	TxnID      string          `json:"txn_id"`
	ClientCode string          `json:"client_code"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	Status     string          `json:"status"`
	Remarks    string          `json:"remarks"`
	Evidence   []string        `json:"evidence"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type DisputeFilter struct {
	Status     string `json:"status,omitempty" form:"status"`
	ClientCode string `json:"client_code,omitempty" form:"client_code"`
	Page       int    `json:"page,omitempty" form:"page"`
	PageSize   int    `json:"page_size,omitempty" form:"page_size"`
}

type DisputeList struct {
	Results []Dispute `json:"results"`
	Count   int       `json:"count"`
}
