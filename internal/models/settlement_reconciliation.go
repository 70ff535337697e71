package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReconciliationMatched    = "MATCHED"
	ReconciliationMismatched = "MISMATCHED"
	ReconciliationPending    = "PENDING"
)

// SettlementReconciliation ties a completed batch to a bank-statement figure.
// Difference is system minus bank, as computed by the gateway.
type SettlementReconciliation struct {
	ReconciliationID    string          `json:"reconciliation_id"`
	BatchID             string          `json:"batch_id"`
	SystemAmount        decimal.Decimal `json:"system_amount"`
	BankStatementAmount decimal.Decimal `json:"bank_statement_amount"`
	Difference          decimal.Decimal `json:"difference"`
	Status              string          `json:"status"`
	Remarks             string          `json:"remarks"`
	ReconciledAt        *time.Time      `json:"reconciled_at"`
}

type ReconciliationFilter struct {
	Status   string `json:"status,omitempty" form:"status"`
	BatchID  string `json:"batch_id,omitempty" form:"batch_id"`
	DateFrom string `json:"date_from,omitempty" form:"date_from"`
	DateTo   string `json:"date_to,omitempty" form:"date_to"`
}

type ReconciliationList struct {
	Results []SettlementReconciliation `json:"results"`
	Count   int                        `json:"count"`
}
