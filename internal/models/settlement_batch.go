package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch statuses as the gateway reports them.
const (
	BatchPending    = "PENDING"
	BatchProcessing = "PROCESSING"
	BatchApproved   = "APPROVED"
	BatchCompleted  = "COMPLETED"
	BatchFailed     = "FAILED"
	BatchCancelled  = "CANCELLED"
)

// SettlementBatch is one T+1 settlement run for a business date. The gateway
// owns every field; the console only caches what it was last given.
type SettlementBatch struct {
	BatchID             string          `json:"batch_id"`
	BatchDate           string          `json:"batch_date"`
	Status              string          `json:"status"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	ProcessingFee       decimal.Decimal `json:"processing_fee"`
	GSTAmount           decimal.Decimal `json:"gst_amount"`
	NetSettlementAmount decimal.Decimal `json:"net_settlement_amount"`
	TotalTransactions   int             `json:"total_transactions"`
	ProcessedAt         *time.Time      `json:"processed_at"`
}

// NetAmountConsistent reports whether net = total - fee - gst. The server
// enforces this; the client checks it only in tests against fixtures.
func (b SettlementBatch) NetAmountConsistent() bool {
	want := b.TotalAmount.Sub(b.ProcessingFee).Sub(b.GSTAmount)
	return b.NetSettlementAmount.Equal(want)
}

// BatchFilter narrows the batch list request.
type BatchFilter struct {
	Status   string `json:"status,omitempty" form:"status"`
	DateFrom string `json:"date_from,omitempty" form:"date_from"`
	DateTo   string `json:"date_to,omitempty" form:"date_to"`
	Search   string `json:"search,omitempty" form:"search"`
	Page     int    `json:"page,omitempty" form:"page"`
	PageSize int    `json:"page_size,omitempty" form:"page_size"`
}

// BatchList is the gateway's list envelope.
type BatchList struct {
	Results []SettlementBatch `json:"results"`
	Count   int               `json:"count"`
}
