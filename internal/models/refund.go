package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RefundPending    = "PENDING"
	RefundApproved   = "APPROVED"
	RefundRejected   = "REJECTED"
	RefundProcessing = "PROCESSING"
	RefundCompleted  = "COMPLETED"
)

// RefundRequest mirrors the gateway's refund resource. State is server-owned;
// the console only requests transitions.
type RefundRequest struct {
	RefundID   string          `json:"refund_id"`
	TxnID      string          `json:"txn_id"`
	ClientCode string          `json:"client_code"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	Status     string          `json:"status"`
	UTRNumber  *string         `json:"utr_number"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type RefundFilter struct {
	Status     string `json:"status,omitempty" form:"status"`
	ClientCode string `json:"client_code,omitempty" form:"client_code"`
	DateFrom   string `json:"date_from,omitempty" form:"date_from"`
	DateTo     string `json:"date_to,omitempty" form:"date_to"`
	Page       int    `json:"page,omitempty" form:"page"`
	PageSize   int    `json:"page_size,omitempty" form:"page_size"`
}

type RefundList struct {
	Results []RefundRequest `json:"results"`
	Count   int             `json:"count"`
}
