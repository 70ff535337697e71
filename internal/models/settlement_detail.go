package models

import "github.com/shopspring/decimal"

// Line-item settlement statuses.
const (
	SettlementSettled = "SETTLED"
	SettlementPending = "PENDING"
	SettlementFailed  = "FAILED"
)

// SettlementDetail is one transaction's settlement record inside a batch.
type SettlementDetail struct {
	SettlementID      string          `json:"settlement_id"`
	TxnID             string          `json:"txn_id"`
	BatchID           string          `json:"batch_id"`
	ClientCode        string          `json:"client_code"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	SettlementAmount  decimal.Decimal `json:"settlement_amount"`
	ProcessingFee     decimal.Decimal `json:"processing_fee"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	SettlementStatus  string          `json:"settlement_status"`
	UTRNumber         *string         `json:"utr_number"`
}
