package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"payment-operations-console/internal/models"
)

// SettlementsAPI maps settlement operations onto the gateway's
// /settlements resource root.
type SettlementsAPI struct {
	c *Client
}

func (c *Client) Settlements() *SettlementsAPI {
	return &SettlementsAPI{c: c}
}

func batchQuery(f models.BatchFilter) url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
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
	return q
}

func (a *SettlementsAPI) ListBatches(ctx context.Context, f models.BatchFilter) (models.BatchList, error) {
	body, _, err := a.c.do(ctx, "GET", "/settlements/batches/", batchQuery(f), nil)
	if err != nil {
		return models.BatchList{}, err
	}
	results, count, err := decodeList[models.SettlementBatch](body)
	if err != nil {
		return models.BatchList{}, fmt.Errorf("decoding batch list: %w", err)
	}
	return models.BatchList{Results: results, Count: count}, nil
}

func (a *SettlementsAPI) GetBatch(ctx context.Context, batchID string) (models.SettlementBatch, error) {
	var batch models.SettlementBatch
	err := a.c.getJSON(ctx, "/settlements/batches/"+url.PathEscape(batchID)+"/", nil, &batch)
	return batch, err
}

// CreateBatch requests a settlement run. batchDate is forwarded verbatim;
// when empty the gateway picks the date itself.
func (a *SettlementsAPI) CreateBatch(ctx context.Context, batchDate string) (models.SettlementBatch, error) {
	payload := map[string]string{}
	if batchDate != "" {
		payload["batch_date"] = batchDate
	}
	var batch models.SettlementBatch
	err := a.c.postJSON(ctx, "/settlements/batches/", payload, &batch)
	return batch, err
}

func (a *SettlementsAPI) ProcessBatch(ctx context.Context, batchID string) (models.SettlementBatch, error) {
	var batch models.SettlementBatch
	err := a.c.postJSON(ctx, "/settlements/batches/"+url.PathEscape(batchID)+"/process/", nil, &batch)
	return batch, err
}

func (a *SettlementsAPI) ApproveBatch(ctx context.Context, batchID, notes string) (models.SettlementBatch, error) {
	payload := map[string]string{}
	if notes != "" {
		payload["notes"] = notes
	}
	var batch models.SettlementBatch
	err := a.c.postJSON(ctx, "/settlements/batches/"+url.PathEscape(batchID)+"/approve/", payload, &batch)
	return batch, err
}

func (a *SettlementsAPI) CancelBatch(ctx context.Context, batchID, reason string) (models.SettlementBatch, error) {
	var batch models.SettlementBatch
	err := a.c.postJSON(ctx, "/settlements/batches/"+url.PathEscape(batchID)+"/cancel/", map[string]string{"reason": reason}, &batch)
	return batch, err
}

func (a *SettlementsAPI) ListDetails(ctx context.Context, batchID string) ([]models.SettlementDetail, error) {
	body, _, err := a.c.do(ctx, "GET", "/settlements/batches/"+url.PathEscape(batchID)+"/details/", nil, nil)
	if err != nil {
		return nil, err
	}
	details, _, err := decodeList[models.SettlementDetail](body)
	if err != nil {
		return nil, fmt.Errorf("decoding settlement details: %w", err)
	}
	return details, nil
}

func (a *SettlementsAPI) RetrySettlement(ctx context.Context, settlementID string) error {
	return a.c.postJSON(ctx, "/settlements/retry/"+url.PathEscape(settlementID)+"/", nil, nil)
}

// BulkProcess submits line items for processing and returns how many the
// gateway accepted, which may be fewer than were submitted.
func (a *SettlementsAPI) BulkProcess(ctx context.Context, settlementIDs []string) (int, error) {
	var resp struct {
		Processed int `json:"processed"`
	}
	err := a.c.postJSON(ctx, "/settlements/bulk-process/", map[string][]string{"settlement_ids": settlementIDs}, &resp)
	return resp.Processed, err
}

func (a *SettlementsAPI) Statistics(ctx context.Context, f models.BatchFilter) (models.SettlementStatistics, error) {
	var stats models.SettlementStatistics
	err := a.c.getJSON(ctx, "/settlements/statistics/", batchQuery(f), &stats)
	return stats, err
}

func (a *SettlementsAPI) Activities(ctx context.Context, limit int) ([]models.SettlementActivity, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	body, _, err := a.c.do(ctx, "GET", "/settlements/activities/", q, nil)
	if err != nil {
		return nil, err
	}
	activities, _, err := decodeList[models.SettlementActivity](body)
	if err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}
	return activities, nil
}

func (a *SettlementsAPI) CycleDistribution(ctx context.Context) ([]models.CycleDistribution, error) {
	body, _, err := a.c.do(ctx, "GET", "/settlements/cycle-distribution/", nil, nil)
	if err != nil {
		return nil, err
	}
	cycles, _, err := decodeList[models.CycleDistribution](body)
	if err != nil {
		return nil, fmt.Errorf("decoding cycle distribution: %w", err)
	}
	return cycles, nil
}

func (a *SettlementsAPI) CreateReconciliation(ctx context.Context, batchID string, bankAmount decimal.Decimal, remarks string) (models.SettlementReconciliation, error) {
	payload := map[string]interface{}{
		"batch_id":              batchID,
		"bank_statement_amount": bankAmount,
	}
	if remarks != "" {
		payload["remarks"] = remarks
	}
	var rec models.SettlementReconciliation
	err := a.c.postJSON(ctx, "/settlements/reconciliations/", payload, &rec)
	return rec, err
}

func (a *SettlementsAPI) ListReconciliations(ctx context.Context, f models.ReconciliationFilter) (models.ReconciliationList, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.BatchID != "" {
		q.Set("batch_id", f.BatchID)
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	body, _, err := a.c.do(ctx, "GET", "/settlements/reconciliations/", q, nil)
	if err != nil {
		return models.ReconciliationList{}, err
	}
	results, count, err := decodeList[models.SettlementReconciliation](body)
	if err != nil {
		return models.ReconciliationList{}, fmt.Errorf("decoding reconciliations: %w", err)
	}
	return models.ReconciliationList{Results: results, Count: count}, nil
}

func (a *SettlementsAPI) UpdateReconciliation(ctx context.Context, reconciliationID, status, remarks string) (models.SettlementReconciliation, error) {
	payload := map[string]string{"status": status}
	if remarks != "" {
		payload["remarks"] = remarks
	}
	var rec models.SettlementReconciliation
	err := a.c.putJSON(ctx, "/settlements/reconciliations/"+url.PathEscape(reconciliationID)+"/", payload, &rec)
	return rec, err
}

func (a *SettlementsAPI) GenerateReport(ctx context.Context, reportType, dateFrom, dateTo string) (models.SettlementReport, error) {
	var report models.SettlementReport
	err := a.c.postJSON(ctx, "/settlements/reports/", map[string]string{
		"report_type": reportType,
		"date_from":   dateFrom,
		"date_to":     dateTo,
	}, &report)
	return report, err
}

func (a *SettlementsAPI) ListReports(ctx context.Context) ([]models.SettlementReport, error) {
	body, _, err := a.c.do(ctx, "GET", "/settlements/reports/", nil, nil)
	if err != nil {
		return nil, err
	}
	reports, _, err := decodeList[models.SettlementReport](body)
	if err != nil {
		return nil, fmt.Errorf("decoding reports: %w", err)
	}
	return reports, nil
}

// DownloadReport fetches a generated report as raw bytes.
func (a *SettlementsAPI) DownloadReport(ctx context.Context, reportID string) ([]byte, string, error) {
	return a.c.getBytes(ctx, "/settlements/reports/"+url.PathEscape(reportID)+"/download/", nil)
}

// Export asks the gateway for a server-side export of batches matching the
// filter. The console also builds exports locally from loaded batches; this
// covers the full-dataset case.
func (a *SettlementsAPI) Export(ctx context.Context, format string, f models.BatchFilter) ([]byte, string, error) {
	q := batchQuery(f)
	q.Set("format", format)
	return a.c.getBytes(ctx, "/settlements/export/", q)
}
