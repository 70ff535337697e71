package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"payment-operations-console/internal/models"
)

// TransactionsAPI covers transaction-level reconciliation under
// /transactions/reconciliation.
type TransactionsAPI struct {
	c *Client
}

func (c *Client) Transactions() *TransactionsAPI {
	return &TransactionsAPI{c: c}
}

func (a *TransactionsAPI) ListReconciliation(ctx context.Context, f models.TxnReconFilter) (models.TxnReconList, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	body, _, err := a.c.do(ctx, "GET", "/transactions/reconciliation/", q, nil)
	if err != nil {
		return models.TxnReconList{}, err
	}
	results, count, err := decodeList[models.TxnReconRecord](body)
	if err != nil {
		return models.TxnReconList{}, fmt.Errorf("decoding reconciliation records: %w", err)
	}
	return models.TxnReconList{Results: results, Count: count}, nil
}

func (a *TransactionsAPI) ConfirmMatch(ctx context.Context, recordID string) (models.TxnReconRecord, error) {
	var record models.TxnReconRecord
	err := a.c.postJSON(ctx, "/transactions/reconciliation/"+url.PathEscape(recordID)+"/confirm/", nil, &record)
	return record, err
}

func (a *TransactionsAPI) RejectMatch(ctx context.Context, recordID string) (models.TxnReconRecord, error) {
	var record models.TxnReconRecord
	err := a.c.postJSON(ctx, "/transactions/reconciliation/"+url.PathEscape(recordID)+"/reject/", nil, &record)
	return record, err
}

func (a *TransactionsAPI) ManualMatch(ctx context.Context, recordID, txnID string) (models.TxnReconRecord, error) {
	var record models.TxnReconRecord
	err := a.c.postJSON(ctx, "/transactions/reconciliation/"+url.PathEscape(recordID)+"/match/", map[string]string{"txn_id": txnID}, &record)
	return record, err
}
