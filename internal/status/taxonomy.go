// Package status is the single source of truth for status display metadata.
// Every page used to carry its own status -> color table; they drifted. All
// lookups now go through here, keyed by domain.
package status

import (
	"fmt"

	"payment-operations-console/internal/models"
)

type Severity string

const (
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
	Info    Severity = "info"
	Neutral Severity = "neutral"
)

// Style is what the view layer needs to render a status chip.
type Style struct {
	Severity Severity `json:"severity"`
	Color    string   `json:"color"`
	Label    string   `json:"label"`
}

var unknown = Style{Severity: Neutral, Color: "gray", Label: "Unknown"}

var batchStyles = map[string]Style{
	models.BatchPending:    {Severity: Warning, Color: "amber", Label: "Pending"},
	models.BatchProcessing: {Severity: Info, Color: "blue", Label: "Processing"},
	models.BatchApproved:   {Severity: Info, Color: "indigo", Label: "Approved"},
	models.BatchCompleted:  {Severity: Success, Color: "green", Label: "Completed"},
	models.BatchFailed:     {Severity: Error, Color: "red", Label: "Failed"},
	models.BatchCancelled:  {Severity: Neutral, Color: "gray", Label: "Cancelled"},
}

var settlementStyles = map[string]Style{
	models.SettlementSettled: {Severity: Success, Color: "green", Label: "Settled"},
	models.SettlementPending: {Severity: Warning, Color: "amber", Label: "Pending"},
	models.SettlementFailed:  {Severity: Error, Color: "red", Label: "Failed"},
}

var reconciliationStyles = map[string]Style{
	models.ReconciliationMatched:    {Severity: Success, Color: "green", Label: "Matched"},
	models.ReconciliationMismatched: {Severity: Error, Color: "red", Label: "Mismatched"},
	models.ReconciliationPending:    {Severity: Warning, Color: "amber", Label: "Pending"},
}

var refundStyles = map[string]Style{
	models.RefundPending:    {Severity: Warning, Color: "amber", Label: "Pending"},
	models.RefundApproved:   {Severity: Info, Color: "indigo", Label: "Approved"},
	models.RefundRejected:   {Severity: Error, Color: "red", Label: "Rejected"},
	models.RefundProcessing: {Severity: Info, Color: "blue", Label: "Processing"},
	models.RefundCompleted:  {Severity: Success, Color: "green", Label: "Completed"},
}

var disputeStyles = map[string]Style{
	models.DisputeOpen:          {Severity: Warning, Color: "amber", Label: "Open"},
	models.DisputeInvestigating: {Severity: Info, Color: "blue", Label: "Investigating"},
	models.DisputeResolved:      {Severity: Success, Color: "green", Label: "Resolved"},
	models.DisputeRejected:      {Severity: Error, Color: "red", Label: "Rejected"},
	models.DisputeEscalated:     {Severity: Error, Color: "red", Label: "Escalated"},
}

var kycStyles = map[string]Style{
	models.KYCPending:  {Severity: Warning, Color: "amber", Label: "Pending"},
	models.KYCVerified: {Severity: Success, Color: "green", Label: "Verified"},
	models.KYCRejected: {Severity: Error, Color: "red", Label: "Rejected"},
}

var txnReconStyles = map[string]Style{
	models.TxnReconMatched:      {Severity: Success, Color: "green", Label: "Matched"},
	models.TxnReconManualReview: {Severity: Warning, Color: "amber", Label: "Needs Review"},
	models.TxnReconUnmatched:    {Severity: Error, Color: "red", Label: "Unmatched"},
	models.TxnReconConfirmed:    {Severity: Success, Color: "green", Label: "Confirmed"},
}

func lookup(table map[string]Style, status string) Style {
	if s, ok := table[status]; ok {
		return s
	}
	return unknown
}

func ForBatch(status string) Style          { return lookup(batchStyles, status) }
func ForSettlement(status string) Style     { return lookup(settlementStyles, status) }
func ForReconciliation(status string) Style { return lookup(reconciliationStyles, status) }
func ForRefund(status string) Style         { return lookup(refundStyles, status) }
func ForDispute(status string) Style        { return lookup(disputeStyles, status) }
func ForKYC(status string) Style            { return lookup(kycStyles, status) }
func ForTxnRecon(status string) Style       { return lookup(txnReconStyles, status) }

// BatchTerminal reports whether no further transition actions exist for the
// batch from the console's side.
func BatchTerminal(status string) bool {
	return status == models.BatchCompleted || status == models.BatchCancelled
}

// BatchProcessable reports whether Process (or retry, which is the same call)
// is a valid action for the batch.
func BatchProcessable(status string) bool {
	return status == models.BatchPending || status == models.BatchFailed
}

// Rate classification thresholds. One value per domain, no per-page copies.
const (
	rateSuccessFloor = 75.0
	rateWarningFloor = 50.0
)

// ClassifyMatchRate buckets a reconciliation match rate for display.
func ClassifyMatchRate(rate float64) Severity {
	switch {
	case rate >= rateSuccessFloor:
		return Success
	case rate >= rateWarningFloor:
		return Warning
	default:
		return Error
	}
}

// ClassifyVerificationRate buckets the KYC verification rate. Same thresholds
// as match rate; kept separate so the domains can diverge deliberately.
func ClassifyVerificationRate(rate float64) Severity {
	return ClassifyMatchRate(rate)
}

// FormatRate renders a percentage the way the dashboard shows it, e.g. "87.5%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%g%%", rate)
}
