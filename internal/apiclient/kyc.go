package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"payment-operations-console/internal/models"
)

type KYCAPI struct {
	c *Client
}

func (c *Client) KYC() *KYCAPI {
	return &KYCAPI{c: c}
}

func (a *KYCAPI) ListDocuments(ctx context.Context, status string) (models.KYCList, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	body, _, err := a.c.do(ctx, "GET", "/kyc/documents/", q, nil)
	if err != nil {
		return models.KYCList{}, err
	}
	results, count, err := decodeList[models.KYCDocument](body)
	if err != nil {
		return models.KYCList{}, fmt.Errorf("decoding kyc list: %w", err)
	}
	return models.KYCList{Results: results, Count: count}, nil
}

func (a *KYCAPI) Verify(ctx context.Context, documentID, remarks string) (models.KYCDocument, error) {
	payload := map[string]string{}
	if remarks != "" {
		payload["remarks"] = remarks
	}
	var doc models.KYCDocument
	err := a.c.postJSON(ctx, "/kyc/documents/"+url.PathEscape(documentID)+"/verify/", payload, &doc)
	return doc, err
}

func (a *KYCAPI) Reject(ctx context.Context, documentID, remarks string) (models.KYCDocument, error) {
	var doc models.KYCDocument
	err := a.c.postJSON(ctx, "/kyc/documents/"+url.PathEscape(documentID)+"/reject/", map[string]string{"remarks": remarks}, &doc)
	return doc, err
}

func (a *KYCAPI) Statistics(ctx context.Context) (models.KYCStatistics, error) {
	var stats models.KYCStatistics
	err := a.c.getJSON(ctx, "/kyc/statistics/", nil, &stats)
	return stats, err
}

// ComplianceAPI covers compliance alerts.
type ComplianceAPI struct {
	c *Client
}

func (c *Client) Compliance() *ComplianceAPI {
	return &ComplianceAPI{c: c}
}

func (a *ComplianceAPI) ListAlerts(ctx context.Context, status string) (models.AlertList, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	body, _, err := a.c.do(ctx, "GET", "/compliance/alerts/", q, nil)
	if err != nil {
		return models.AlertList{}, err
	}
	results, count, err := decodeList[models.ComplianceAlert](body)
	if err != nil {
		return models.AlertList{}, fmt.Errorf("decoding alert list: %w", err)
	}
	return models.AlertList{Results: results, Count: count}, nil
}

func (a *ComplianceAPI) UpdateAlert(ctx context.Context, alertID, newStatus, remarks string) (models.ComplianceAlert, error) {
	payload := map[string]string{"status": newStatus}
	if remarks != "" {
		payload["remarks"] = remarks
	}
	var alert models.ComplianceAlert
	err := a.c.putJSON(ctx, "/compliance/alerts/"+url.PathEscape(alertID)+"/", payload, &alert)
	return alert, err
}
