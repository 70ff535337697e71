// Package store holds the console's authoritative in-memory view of
// settlement state. Everything here is a cache of what the gateway last
// returned: mutating actions round-trip to the gateway and merge the returned
// entity back in; nothing is applied locally before the server confirms it.
package store

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/export"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
)

const (
	prefDomain      = "settlements"
	defaultPageSize = 20
	activityLimit   = 10
)

// PreferenceStore persists the last filter/page-size across restarts. May be
// nil, in which case nothing is persisted.
type PreferenceStore interface {
	SavePreference(domain string, filter interface{}, pageSize int) error
	Preference(domain string, out interface{}) (int, error)
}

// SettlementStore orchestrates settlement batches, their line items,
// reconciliations, statistics and the activity feed. Collections are kept as
// maps keyed by id with a separate order slice, so update-by-id is O(1) and
// duplicate ids cannot creep in.
type SettlementStore struct {
	api      *apiclient.SettlementsAPI
	notifier notify.Notifier
	prefs    PreferenceStore
	logger   *logrus.Logger

	mu sync.Mutex

	batches    map[string]models.SettlementBatch
	batchOrder []string

	currentBatch    *models.SettlementBatch
	selectedBatchID string
	details         []models.SettlementDetail

	recons     map[string]models.SettlementReconciliation
	reconOrder []string

	statistics *models.SettlementStatistics
	activities []models.SettlementActivity
	cycles     []models.CycleDistribution
	reports    []models.SettlementReport

	isLoading       bool
	isProcessing    bool
	isCreatingBatch bool

	filter      models.BatchFilter
	lastError   string
	totalCount  int
	currentPage int
	pageSize    int
}

// State is a point-in-time copy of the store for the view layer. Batches and
// reconciliations are in display order (newest-created first after prepends).
type State struct {
	Batches           []models.SettlementBatch         `json:"batches"`
	CurrentBatch      *models.SettlementBatch          `json:"current_batch"`
	SelectedBatchID   string                           `json:"selected_batch_id"`
	SettlementDetails []models.SettlementDetail        `json:"settlement_details"`
	Reconciliations   []models.SettlementReconciliation `json:"reconciliations"`
	Statistics        *models.SettlementStatistics     `json:"statistics"`
	Activities        []models.SettlementActivity      `json:"activities"`
	CycleDistribution []models.CycleDistribution       `json:"cycle_distribution"`
	Reports           []models.SettlementReport        `json:"reports"`
	IsLoading         bool                             `json:"is_loading"`
	IsProcessing      bool                             `json:"is_processing"`
	IsCreatingBatch   bool                             `json:"is_creating_batch"`
	Filter            models.BatchFilter               `json:"filter"`
	Error             string                           `json:"error"`
	TotalCount        int                              `json:"total_count"`
	CurrentPage       int                              `json:"current_page"`
	PageSize          int                              `json:"page_size"`
}

func New(api *apiclient.SettlementsAPI, notifier notify.Notifier, prefs PreferenceStore, logger *logrus.Logger) *SettlementStore {
	s := &SettlementStore{
		api:      api,
		notifier: notifier,
		prefs:    prefs,
		logger:   logger,
		batches:  make(map[string]models.SettlementBatch),
		recons:   make(map[string]models.SettlementReconciliation),
		pageSize: defaultPageSize,
	}

	if prefs != nil {
		var saved models.BatchFilter
		if size, err := prefs.Preference(prefDomain, &saved); err == nil {
			s.filter = saved
			if size > 0 {
				s.pageSize = size
			}
		}
	}

	return s
}

// Snapshot returns a copy of the current state.
func (s *SettlementStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Batches:           s.orderedBatchesLocked(),
		SelectedBatchID:   s.selectedBatchID,
		SettlementDetails: append([]models.SettlementDetail(nil), s.details...),
		Reconciliations:   s.orderedReconsLocked(),
		Activities:        append([]models.SettlementActivity(nil), s.activities...),
		CycleDistribution: append([]models.CycleDistribution(nil), s.cycles...),
		Reports:           append([]models.SettlementReport(nil), s.reports...),
		IsLoading:         s.isLoading,
		IsProcessing:      s.isProcessing,
		IsCreatingBatch:   s.isCreatingBatch,
		Filter:            s.filter,
		Error:             s.lastError,
		TotalCount:        s.totalCount,
		CurrentPage:       s.currentPage,
		PageSize:          s.pageSize,
	}
	if s.currentBatch != nil {
		cb := *s.currentBatch
		st.CurrentBatch = &cb
	}
	if s.statistics != nil {
		stats := *s.statistics
		st.Statistics = &stats
	}
	return st
}

func (s *SettlementStore) orderedBatchesLocked() []models.SettlementBatch {
	out := make([]models.SettlementBatch, 0, len(s.batchOrder))
	for _, id := range s.batchOrder {
		out = append(out, s.batches[id])
	}
	return out
}

func (s *SettlementStore) orderedReconsLocked() []models.SettlementReconciliation {
	out := make([]models.SettlementReconciliation, 0, len(s.reconOrder))
	for _, id := range s.reconOrder {
		out = append(out, s.recons[id])
	}
	return out
}

// fail records the last error and surfaces it. Last write wins; there is no
// error history.
func (s *SettlementStore) fail(title string, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	s.notifier.Error(title, err.Error())
}

func (s *SettlementStore) setLoading(v bool) {
	s.mu.Lock()
	s.isLoading = v
	s.mu.Unlock()
}

func (s *SettlementStore) setProcessing(v bool) {
	s.mu.Lock()
	s.isProcessing = v
	s.mu.Unlock()
}

// replaceBatchLocked merges a returned batch into the collection by id. A
// batch the list does not hold yet is appended rather than dropped.
func (s *SettlementStore) replaceBatchLocked(b models.SettlementBatch) {
	if _, ok := s.batches[b.BatchID]; !ok {
		s.batchOrder = append(s.batchOrder, b.BatchID)
	}
	s.batches[b.BatchID] = b
	if s.currentBatch != nil && s.currentBatch.BatchID == b.BatchID {
		cb := b
		s.currentBatch = &cb
	}
}

// FetchBatches replaces the batch collection wholesale and remembers the
// filter used, persisting it for the next session.
func (s *SettlementStore) FetchBatches(ctx context.Context, f models.BatchFilter) error {
	s.setLoading(true)
	defer s.setLoading(false)

	list, err := s.api.ListBatches(ctx, f)
	if err != nil {
		s.fail("Failed to load settlement batches", err)
		return err
	}

	s.mu.Lock()
	s.batches = make(map[string]models.SettlementBatch, len(list.Results))
	s.batchOrder = s.batchOrder[:0]
	for _, b := range list.Results {
		if _, dup := s.batches[b.BatchID]; dup {
			continue
		}
		s.batches[b.BatchID] = b
		s.batchOrder = append(s.batchOrder, b.BatchID)
	}
	s.totalCount = list.Count
	s.filter = f
	s.currentPage = f.Page
	if s.currentPage == 0 {
		s.currentPage = 1
	}
	if f.PageSize > 0 {
		s.pageSize = f.PageSize
	}
	pageSize := s.pageSize
	s.lastError = ""
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SavePreference(prefDomain, f, pageSize); err != nil {
			s.logger.WithError(err).Warn("failed to persist settlement filter")
		}
	}
	return nil
}

// FetchBatchDetails loads a single batch as the current selection.
func (s *SettlementStore) FetchBatchDetails(ctx context.Context, batchID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	batch, err := s.api.GetBatch(ctx, batchID)
	if err != nil {
		s.fail("Failed to load batch", err)
		return err
	}

	s.mu.Lock()
	s.currentBatch = &batch
	s.selectedBatchID = batch.BatchID
	s.replaceBatchLocked(batch)
	s.mu.Unlock()
	return nil
}

// CreateBatch requests a settlement run for the given date. The date string
// is forwarded verbatim; the T+1 presentation rule (selecting D settles D-1)
// is the view layer's concern, not the store's.
func (s *SettlementStore) CreateBatch(ctx context.Context, batchDate string) (models.SettlementBatch, error) {
	s.mu.Lock()
	s.isCreatingBatch = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.isCreatingBatch = false
		s.mu.Unlock()
	}()

	batch, err := s.api.CreateBatch(ctx, batchDate)
	if err != nil {
		s.fail("Failed to create settlement batch", err)
		return models.SettlementBatch{}, err
	}

	s.mu.Lock()
	if _, ok := s.batches[batch.BatchID]; !ok {
		s.batchOrder = append([]string{batch.BatchID}, s.batchOrder...)
	}
	s.batches[batch.BatchID] = batch
	cb := batch
	s.currentBatch = &cb
	s.selectedBatchID = batch.BatchID
	s.totalCount++
	s.lastError = ""
	s.mu.Unlock()

	s.notifier.Success("Settlement batch created", "Batch "+batch.BatchID+" for "+batch.BatchDate)
	return batch, nil
}

// ProcessBatch asks the gateway to run a pending or failed batch. Retrying a
// failed batch is this same call.
func (s *SettlementStore) ProcessBatch(ctx context.Context, batchID string) (models.SettlementBatch, error) {
	s.setProcessing(true)
	defer s.setProcessing(false)

	batch, err := s.api.ProcessBatch(ctx, batchID)
	if err != nil {
		s.fail("Failed to process batch", err)
		return models.SettlementBatch{}, err
	}

	s.mu.Lock()
	s.replaceBatchLocked(batch)
	s.lastError = ""
	s.mu.Unlock()

	s.notifier.Success("Batch processing started", "Batch "+batch.BatchID+" is now "+batch.Status)
	return batch, nil
}

func (s *SettlementStore) ApproveBatch(ctx context.Context, batchID, notes string) (models.SettlementBatch, error) {
	s.setProcessing(true)
	defer s.setProcessing(false)

	batch, err := s.api.ApproveBatch(ctx, batchID, notes)
	if err != nil {
		s.fail("Failed to approve batch", err)
		return models.SettlementBatch{}, err
	}

	s.mu.Lock()
	s.replaceBatchLocked(batch)
	s.lastError = ""
	s.mu.Unlock()

	s.notifier.Success("Batch approved", "Batch "+batch.BatchID+" approved")
	return batch, nil
}

// CancelBatch cancels any non-terminal batch. The gateway rejects cancels on
// COMPLETED/CANCELLED batches and that rejection is surfaced verbatim; no
// local transition is forced.
func (s *SettlementStore) CancelBatch(ctx context.Context, batchID, reason string) (models.SettlementBatch, error) {
	if reason == "" {
		err := errors.New("cancellation reason is required")
		s.fail("Failed to cancel batch", err)
		return models.SettlementBatch{}, err
	}

	s.setProcessing(true)
	defer s.setProcessing(false)

	batch, err := s.api.CancelBatch(ctx, batchID, reason)
	if err != nil {
		s.fail("Failed to cancel batch", err)
		return models.SettlementBatch{}, err
	}

	s.mu.Lock()
	s.replaceBatchLocked(batch)
	s.lastError = ""
	s.mu.Unlock()

	s.notifier.Warning("Batch cancelled", "Batch "+batch.BatchID+": "+reason)
	return batch, nil
}

// FetchSettlementDetails replaces the line items with those of one batch.
func (s *SettlementStore) FetchSettlementDetails(ctx context.Context, batchID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	details, err := s.api.ListDetails(ctx, batchID)
	if err != nil {
		s.fail("Failed to load settlement details", err)
		return err
	}

	s.mu.Lock()
	s.details = details
	s.selectedBatchID = batchID
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// RetrySettlement retries one failed line item, then refreshes the selected
// batch's details. The batch list itself is not refetched.
func (s *SettlementStore) RetrySettlement(ctx context.Context, settlementID string) error {
	s.setProcessing(true)

	err := s.api.RetrySettlement(ctx, settlementID)
	if err != nil {
		s.setProcessing(false)
		s.fail("Failed to retry settlement", err)
		return err
	}
	s.setProcessing(false)

	s.notifier.Success("Settlement retry submitted", "Settlement "+settlementID)

	s.mu.Lock()
	selected := s.selectedBatchID
	s.mu.Unlock()
	if selected != "" {
		return s.FetchSettlementDetails(ctx, selected)
	}
	return nil
}

// BulkProcessSettlements submits line items for processing, then refetches
// the full batch list: a bulk run can touch aggregates across several
// batches, and the gateway may have accepted fewer items than submitted, so
// an in-place merge is not trustworthy here.
func (s *SettlementStore) BulkProcessSettlements(ctx context.Context, settlementIDs []string) (int, error) {
	s.setProcessing(true)

	processed, err := s.api.BulkProcess(ctx, settlementIDs)
	if err != nil {
		s.setProcessing(false)
		s.fail("Bulk processing failed", err)
		return 0, err
	}
	s.setProcessing(false)

	if processed < len(settlementIDs) {
		s.notifier.Warning("Bulk processing partially complete",
			"Processed "+strconv.Itoa(processed)+" of "+strconv.Itoa(len(settlementIDs))+" settlements")
	} else {
		s.notifier.Success("Bulk processing complete",
			"Processed "+strconv.Itoa(processed)+" settlements")
	}

	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()
	if err := s.FetchBatches(ctx, filter); err != nil {
		return processed, err
	}
	return processed, nil
}

// FetchStatistics refreshes the dashboard summary. Secondary widget: failures
// are logged, never surfaced as notifications.
func (s *SettlementStore) FetchStatistics(ctx context.Context, f models.BatchFilter) error {
	stats, err := s.api.Statistics(ctx, f)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh settlement statistics")
		return err
	}

	s.mu.Lock()
	s.statistics = &stats
	s.mu.Unlock()
	return nil
}

func (s *SettlementStore) FetchActivities(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = activityLimit
	}
	activities, err := s.api.Activities(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh settlement activities")
		return err
	}

	s.mu.Lock()
	s.activities = activities
	s.mu.Unlock()
	return nil
}

func (s *SettlementStore) FetchCycleDistribution(ctx context.Context) error {
	cycles, err := s.api.CycleDistribution(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh cycle distribution")
		return err
	}

	s.mu.Lock()
	s.cycles = cycles
	s.mu.Unlock()
	return nil
}

// CreateReconciliation records a bank-statement figure against a batch. The
// gateway only accepts COMPLETED batches; rejections are propagated.
func (s *SettlementStore) CreateReconciliation(ctx context.Context, batchID string, bankAmount decimal.Decimal, remarks string) (models.SettlementReconciliation, error) {
	s.setProcessing(true)
	defer s.setProcessing(false)

	rec, err := s.api.CreateReconciliation(ctx, batchID, bankAmount, remarks)
	if err != nil {
		s.fail("Failed to create reconciliation", err)
		return models.SettlementReconciliation{}, err
	}

	s.mu.Lock()
	if _, ok := s.recons[rec.ReconciliationID]; !ok {
		s.reconOrder = append([]string{rec.ReconciliationID}, s.reconOrder...)
	}
	s.recons[rec.ReconciliationID] = rec
	s.lastError = ""
	s.mu.Unlock()

	s.notifier.Success("Reconciliation recorded", "Batch "+batchID+" is "+rec.Status)
	return rec, nil
}

func (s *SettlementStore) FetchReconciliations(ctx context.Context, f models.ReconciliationFilter) error {
	s.setLoading(true)
	defer s.setLoading(false)

	list, err := s.api.ListReconciliations(ctx, f)
	if err != nil {
		s.fail("Failed to load reconciliations", err)
		return err
	}

	s.mu.Lock()
	s.recons = make(map[string]models.SettlementReconciliation, len(list.Results))
	s.reconOrder = s.reconOrder[:0]
	for _, r := range list.Results {
		if _, dup := s.recons[r.ReconciliationID]; dup {
			continue
		}
		s.recons[r.ReconciliationID] = r
		s.reconOrder = append(s.reconOrder, r.ReconciliationID)
	}
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

func (s *SettlementStore) UpdateReconciliation(ctx context.Context, reconciliationID, newStatus, remarks string) (models.SettlementReconciliation, error) {
	s.setProcessing(true)
	defer s.setProcessing(false)

	rec, err := s.api.UpdateReconciliation(ctx, reconciliationID, newStatus, remarks)
	if err != nil {
		s.fail("Failed to update reconciliation", err)
		return models.SettlementReconciliation{}, err
	}

	s.mu.Lock()
	if _, ok := s.recons[rec.ReconciliationID]; !ok {
		s.reconOrder = append(s.reconOrder, rec.ReconciliationID)
	}
	s.recons[rec.ReconciliationID] = rec
	s.lastError = ""
	s.mu.Unlock()

	s.notifier.Success("Reconciliation updated", rec.ReconciliationID+" is now "+rec.Status)
	return rec, nil
}

func (s *SettlementStore) GenerateReport(ctx context.Context, reportType, dateFrom, dateTo string) (models.SettlementReport, error) {
	s.setProcessing(true)
	defer s.setProcessing(false)

	report, err := s.api.GenerateReport(ctx, reportType, dateFrom, dateTo)
	if err != nil {
		s.fail("Failed to generate report", err)
		return models.SettlementReport{}, err
	}

	s.mu.Lock()
	s.reports = append([]models.SettlementReport{report}, s.reports...)
	s.lastError = ""
	s.mu.Unlock()

	s.notifier.Success("Report requested", reportType+" report queued")
	return report, nil
}

func (s *SettlementStore) FetchReports(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	reports, err := s.api.ListReports(ctx)
	if err != nil {
		s.fail("Failed to load reports", err)
		return err
	}

	s.mu.Lock()
	s.reports = reports
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// DownloadReport fetches a report's file and returns it with a suggested
// filename derived from the content type.
func (s *SettlementStore) DownloadReport(ctx context.Context, reportID string) ([]byte, string, error) {
	data, contentType, err := s.api.DownloadReport(ctx, reportID)
	if err != nil {
		s.fail("Failed to download report", err)
		return nil, "", err
	}
	return data, export.ReportFilename(reportID, contentType), nil
}

// ExportSettlements renders the currently loaded batch list as CSV or XLSX.
// Built locally, one row per loaded batch, so what the operator downloads is
// exactly the table on screen.
func (s *SettlementStore) ExportSettlements(format string) ([]byte, string, error) {
	s.mu.Lock()
	batches := s.orderedBatchesLocked()
	s.mu.Unlock()

	var (
		data []byte
		err  error
	)
	switch format {
	case "csv":
		data, err = export.BatchesCSV(batches)
	case "xlsx":
		data, err = export.BatchesXLSX(batches)
	default:
		err = errors.New("unsupported export format: " + format)
	}
	if err != nil {
		s.fail("Export failed", err)
		return nil, "", err
	}

	s.notifier.Success("Export ready", "Exported "+strconv.Itoa(len(batches))+" batches")
	return data, export.Filename(format), nil
}

// ExportAllSettlements asks the gateway to export every batch matching the
// current filter, not just the loaded page.
func (s *SettlementStore) ExportAllSettlements(ctx context.Context, format string) ([]byte, string, error) {
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()

	data, _, err := s.api.Export(ctx, format, filter)
	if err != nil {
		s.fail("Export failed", err)
		return nil, "", err
	}

	s.notifier.Success("Export ready", "Full export generated")
	return data, export.Filename(format), nil
}

// Err returns the last recorded error string, empty when the previous action
// succeeded.
func (s *SettlementStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
