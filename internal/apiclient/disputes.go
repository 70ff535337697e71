package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"payment-operations-console/internal/models"
)

type DisputesAPI struct {
	c *Client
}

func (c *Client) Disputes() *DisputesAPI {
	return &DisputesAPI{c: c}
}

func (a *DisputesAPI) List(ctx context.Context, f models.DisputeFilter) (models.DisputeList, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.ClientCode != "" {
		q.Set("client_code", f.ClientCode)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	body, _, err := a.c.do(ctx, "GET", "/disputes/", q, nil)
	if err != nil {
		return models.DisputeList{}, err
	}
	results, count, err := decodeList[models.Dispute](body)
	if err != nil {
		return models.DisputeList{}, fmt.Errorf("decoding dispute list: %w", err)
	}
	return models.DisputeList{Results: results, Count: count}, nil
}

func (a *DisputesAPI) Get(ctx context.Context, disputeID string) (models.Dispute, error) {
	var dispute models.Dispute
	err := a.c.getJSON(ctx, "/disputes/"+url.PathEscape(disputeID)+"/", nil, &dispute)
	return dispute, err
}

// Transition requests a dispute status change. The gateway validates the
// transition; invalid ones come back as normalized errors.
func (a *DisputesAPI) Transition(ctx context.Context, disputeID, newStatus, remarks string) (models.Dispute, error) {
	payload := map[string]string{"status": newStatus}
	if remarks != "" {
		payload["remarks"] = remarks
	}
	var dispute models.Dispute
	err := a.c.postJSON(ctx, "/disputes/"+url.PathEscape(disputeID)+"/status/", payload, &dispute)
	return dispute, err
}

func (a *DisputesAPI) AddEvidence(ctx context.Context, disputeID, evidenceURL string) (models.Dispute, error) {
	var dispute models.Dispute
	err := a.c.postJSON(ctx, "/disputes/"+url.PathEscape(disputeID)+"/evidence/", map[string]string{"url": evidenceURL}, &dispute)
	return dispute, err
}
