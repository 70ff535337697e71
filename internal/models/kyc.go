package models

import "time"

const (
	KYCPending  = "PENDING"
	KYCVerified = "VERIFIED"
	KYCRejected = "REJECTED"
)

type KYCDocument struct {
	DocumentID   string     `json:"document_id"`
	ClientCode   string     `json:"client_code"`
	DocumentType string     `json:"document_type"`
	Status       string     `json:"status"`
	Remarks      string     `json:"remarks"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	VerifiedAt   *time.Time `json:"verified_at"`
}

type KYCList struct {
	Results []KYCDocument `json:"results"`
	Count   int           `json:"count"`
}

// KYCStatistics backs the verification-rate widget.
type KYCStatistics struct {
	TotalDocuments   int     `json:"total_documents"`
	Verified         int     `json:"verified"`
	Pending          int     `json:"pending"`
	Rejected         int     `json:"rejected"`
	VerificationRate float64 `json:"verification_rate"`
}

const (
	AlertOpen     = "OPEN"
	AlertReviewed = "REVIEWED"
	AlertClosed   = "CLOSED"
)

type ComplianceAlert struct {
	AlertID     string    `json:"alert_id"`
	ClientCode  string    `json:"client_code"`
	AlertType   string    `json:"alert_type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type AlertList struct {
	Results []ComplianceAlert `json:"results"`
	Count   int               `json:"count"`
}
