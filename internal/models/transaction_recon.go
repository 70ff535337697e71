package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction-level reconciliation statuses (bank statement vs gateway ledger).
const (
	TxnReconMatched      = "MATCHED"
	TxnReconManualReview = "MANUAL_REVIEW"
	TxnReconUnmatched    = "UNMATCHED"
	TxnReconConfirmed    = "CONFIRMED"
)

// TxnReconRecord is one bank-statement line the gateway tried to match
// against a transaction.
type TxnReconRecord struct {
	RecordID        string          `json:"record_id"`
	TxnID           *string         `json:"txn_id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"reference_number"`
	Status          string          `json:"status"`
	ConfidenceScore float64         `json:"confidence_score"`
	StatementDate   time.Time       `json:"statement_date"`
}

type TxnReconFilter struct {
	Status   string `json:"status,omitempty" form:"status"`
	Search   string `json:"search,omitempty" form:"search"`
	Page     int    `json:"page,omitempty" form:"page"`
	PageSize int    `json:"page_size,omitempty" form:"page_size"`
}

type TxnReconList struct {
	Results []TxnReconRecord `json:"results"`
	Count   int              `json:"count"`
}
