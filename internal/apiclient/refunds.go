package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"payment-operations-console/internal/models"
)

type RefundsAPI struct {
	c *Client
}

func (c *Client) Refunds() *RefundsAPI {
	return &RefundsAPI{c: c}
}

func (a *RefundsAPI) List(ctx context.Context, f models.RefundFilter) (models.RefundList, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.ClientCode != "" {
		q.Set("client_code", f.ClientCode)
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	body, _, err := a.c.do(ctx, "GET", "/refunds/", q, nil)
	if err != nil {
		return models.RefundList{}, err
	}
	results, count, err := decodeList[models.RefundRequest](body)
	if err != nil {
		return models.RefundList{}, fmt.Errorf("decoding refund list: %w", err)
	}
	return models.RefundList{Results: results, Count: count}, nil
}

func (a *RefundsAPI) Get(ctx context.Context, refundID string) (models.RefundRequest, error) {
	var refund models.RefundRequest
	err := a.c.getJSON(ctx, "/refunds/"+url.PathEscape(refundID)+"/", nil, &refund)
	return refund, err
}

func (a *RefundsAPI) Approve(ctx context.Context, refundID, remarks string) (models.RefundRequest, error) {
	payload := map[string]string{}
	if remarks != "" {
		payload["remarks"] = remarks
	}
	var refund models.RefundRequest
	err := a.c.postJSON(ctx, "/refunds/"+url.PathEscape(refundID)+"/approve/", payload, &refund)
	return refund, err
}

func (a *RefundsAPI) Reject(ctx context.Context, refundID, reason string) (models.RefundRequest, error) {
	var refund models.RefundRequest
	err := a.c.postJSON(ctx, "/refunds/"+url.PathEscape(refundID)+"/reject/", map[string]string{"reason": reason}, &refund)
	return refund, err
}

func (a *RefundsAPI) Process(ctx context.Context, refundID string) (models.RefundRequest, error) {
	var refund models.RefundRequest
	err := a.c.postJSON(ctx, "/refunds/"+url.PathEscape(refundID)+"/process/", nil, &refund)
	return refund, err
}
