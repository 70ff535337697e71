package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementActivity is a read-only feed entry summarizing recent batch events.
type SettlementActivity struct {
	ActivityType string           `json:"activity_type"`
	Description  string           `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	Status       string           `json:"status"`
	Timestamp    time.Time        `json:"timestamp"`
}

// SettlementStatistics is the dashboard summary block.
type SettlementStatistics struct {
	TotalBatches     int             `json:"total_batches"`
	PendingBatches   int             `json:"pending_batches"`
	CompletedBatches int             `json:"completed_batches"`
	FailedBatches    int             `json:"failed_batches"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalFees        decimal.Decimal `json:"total_fees"`
	TotalGST         decimal.Decimal `json:"total_gst"`
	NetSettled       decimal.Decimal `json:"net_settled"`
	MatchRate        float64         `json:"match_rate"`
}

// CycleDistribution is one slice of the settlement-cycle chart.
type CycleDistribution struct {
	Cycle  string          `json:"cycle"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Report statuses.
const (
	ReportQueued    = "QUEUED"
	ReportReady     = "READY"
	ReportFailed    = "FAILED"
	ReportGenerated = "GENERATED"
)

// SettlementReport tracks a generated settlement report.
type SettlementReport struct {
	ReportID   string    `json:"report_id"`
	ReportType string    `json:"report_type"`
	DateFrom   string    `json:"date_from"`
	DateTo     string    `json:"date_to"`
	Status     string    `json:"status"`
	FileURL    *string   `json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}
