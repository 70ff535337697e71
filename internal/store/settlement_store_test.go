package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
)

type stubTokens struct{}

func (stubTokens) Tokens() (string, string, string) { return "test-token", "", "" }
func (stubTokens) SaveTokens(_, _ string) error     { return nil }
func (stubTokens) ClearTokens() error               { return nil }

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notify.Notification
}

func (r *recordingNotifier) record(level notify.Level, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, notify.Notification{Level: level, Title: title, Message: message})
}

func (r *recordingNotifier) Success(title, message string) { r.record(notify.LevelSuccess, title, message) }
func (r *recordingNotifier) Warning(title, message string) { r.record(notify.LevelWarning, title, message) }
func (r *recordingNotifier) Error(title, message string)   { r.record(notify.LevelError, title, message) }
func (r *recordingNotifier) Info(title, message string)    { r.record(notify.LevelInfo, title, message) }

func (r *recordingNotifier) last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return notify.Notification{}, false
	}
	return r.messages[len(r.messages)-1], true
}

type memPrefs struct {
	mu       sync.Mutex
	filter   []byte
	pageSize int
	saves    int
}

func (m *memPrefs) SavePreference(_ string, filter interface{}, pageSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(filter)
	if err != nil {
		return err
	}
	m.filter = raw
	m.pageSize = pageSize
	m.saves++
	return nil
}

func (m *memPrefs) Preference(_ string, out interface{}) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if out != nil && len(m.filter) > 0 {
		if err := json.Unmarshal(m.filter, out); err != nil {
			return 0, err
		}
	}
	return m.pageSize, nil
}

// gateway is a scripted fake of the upstream settlement service.
type gateway struct {
	mu        sync.Mutex
	batches   []models.SettlementBatch
	details   map[string][]models.SettlementDetail
	recons    []models.SettlementReconciliation
	listHits  int
	retryHits int
}

func batchFixture(id, date, status string) models.SettlementBatch {
	return models.SettlementBatch{
		BatchID:             id,
		BatchDate:           date,
		Status:              status,
		TotalAmount:         decimal.NewFromInt(1000),
		ProcessingFee:       decimal.NewFromInt(20),
		GSTAmount:           decimal.NewFromFloat(3.6),
		NetSettlementAmount: decimal.NewFromFloat(976.4),
		TotalTransactions:   42,
	}
}

func (g *gateway) find(id string) (int, bool) {
	for i, b := range g.batches {
		if b.BatchID == id {
			return i, true
		}
	}
	return 0, false
}

func (g *gateway) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/settlements/batches/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()

		path := r.URL.Path
		if path == "/settlements/batches/" {
			switch r.Method {
			case http.MethodGet:
				g.listHits++
				results := g.batches
				if status := r.URL.Query().Get("status"); status != "" {
					results = nil
					for _, b := range g.batches {
						if b.Status == status {
							results = append(results, b)
						}
					}
				}
				json.NewEncoder(w).Encode(map[string]interface{}{"results": results, "count": len(results)})
			case http.MethodPost:
				var req struct {
					BatchDate string `json:"batch_date"`
				}
				json.NewDecoder(r.Body).Decode(&req)
				b := batchFixture("BATCH-NEW", req.BatchDate, models.BatchPending)
				g.batches = append([]models.SettlementBatch{b}, g.batches...)
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(b)
			}
			return
		}

		// /settlements/batches/{id}/... subresources
		var id, action string
		rest := path[len("/settlements/batches/"):]
		for i := 0; i < len(rest); i++ {
			if rest[i] == '/' {
				id = rest[:i]
				action = rest[i+1:]
				break
			}
		}
		if id == "" {
			id = rest
		}

		switch action {
		case "", "/":
			i, ok := g.find(id)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"detail": "batch not found"})
				return
			}
			json.NewEncoder(w).Encode(g.batches[i])
		case "process/":
			i, ok := g.find(id)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			g.batches[i].Status = models.BatchProcessing
			json.NewEncoder(w).Encode(g.batches[i])
		case "approve/":
			i, ok := g.find(id)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			g.batches[i].Status = models.BatchApproved
			json.NewEncoder(w).Encode(g.batches[i])
		case "cancel/":
			i, ok := g.find(id)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if g.batches[i].Status == models.BatchCompleted || g.batches[i].Status == models.BatchCancelled {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "cannot cancel a completed batch"})
				return
			}
			g.batches[i].Status = models.BatchCancelled
			json.NewEncoder(w).Encode(g.batches[i])
		case "details/":
			json.NewEncoder(w).Encode(g.details[id])
		}
	})

	mux.HandleFunc("/settlements/retry/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.retryHits++
		w.Write([]byte(`{}`))
	})

	mux.HandleFunc("/settlements/bulk-process/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"processed": 1})
	})

	mux.HandleFunc("/settlements/statistics/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.SettlementStatistics{TotalBatches: 3, MatchRate: 87.5})
	})

	mux.HandleFunc("/settlements/reconciliations/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"results": g.recons, "count": len(g.recons)})
		case http.MethodPost:
			var req struct {
				BatchID             string          `json:"batch_id"`
				BankStatementAmount decimal.Decimal `json:"bank_statement_amount"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			i, ok := g.find(req.BatchID)
			if !ok || g.batches[i].Status != models.BatchCompleted {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "only completed batches can be reconciled"})
				return
			}
			rec := models.SettlementReconciliation{
				ReconciliationID:    "RECON-NEW",
				BatchID:             req.BatchID,
				SystemAmount:        g.batches[i].NetSettlementAmount,
				BankStatementAmount: req.BankStatementAmount,
				Difference:          g.batches[i].NetSettlementAmount.Sub(req.BankStatementAmount),
				Status:              models.ReconciliationMatched,
			}
			g.recons = append([]models.SettlementReconciliation{rec}, g.recons...)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(rec)
		}
	})

	return mux
}

func newTestStore(t *testing.T, g *gateway) (*SettlementStore, *recordingNotifier, *memPrefs) {
	t.Helper()
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := apiclient.New(apiclient.Config{
		BaseURL: srv.URL,
		Tokens:  stubTokens{},
		Logger:  logger,
	})

	notifier := &recordingNotifier{}
	prefs := &memPrefs{}
	return New(client.Settlements(), notifier, prefs, logger), notifier, prefs
}

func TestFetchBatchesReplacesCollection(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchPending),
		batchFixture("BATCH-002", "2025-01-16", models.BatchCompleted),
	}}
	s, _, prefs := newTestStore(t, g)

	filter := models.BatchFilter{Status: models.BatchPending, PageSize: 50}
	require.NoError(t, s.FetchBatches(context.Background(), filter))

	st := s.Snapshot()
	require.Len(t, st.Batches, 1)
	assert.Equal(t, "BATCH-001", st.Batches[0].BatchID)
	assert.Equal(t, models.BatchPending, st.Batches[0].Status)
	assert.Equal(t, 1, st.TotalCount)
	assert.Equal(t, filter, st.Filter)
	assert.Equal(t, 50, st.PageSize)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Empty(t, st.Error)

	// The filter survives for the next session.
	assert.Equal(t, 1, prefs.saves)
	var saved models.BatchFilter
	_, err := prefs.Preference("settlements", &saved)
	require.NoError(t, err)
	assert.Equal(t, filter, saved)

	// An unfiltered fetch replaces the collection wholesale.
	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))
	assert.Len(t, s.Snapshot().Batches, 2)
	assert.Equal(t, 2, s.Snapshot().TotalCount)
}

func TestCreateBatchPrependsAndSelects(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchPending),
	}}
	s, notifier, _ := newTestStore(t, g)
	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))

	batch, err := s.CreateBatch(context.Background(), "2025-01-17")
	require.NoError(t, err)
	assert.Equal(t, "BATCH-NEW", batch.BatchID)

	st := s.Snapshot()
	require.Len(t, st.Batches, 2)
	assert.Equal(t, "BATCH-NEW", st.Batches[0].BatchID)
	require.NotNil(t, st.CurrentBatch)
	assert.Equal(t, "BATCH-NEW", st.CurrentBatch.BatchID)
	assert.Equal(t, 2, st.TotalCount)

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelSuccess, last.Level)
}

func TestProcessBatchMergesInPlace(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchPending),
		batchFixture("BATCH-002", "2025-01-16", models.BatchPending),
	}}
	s, _, _ := newTestStore(t, g)
	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))

	before := s.Snapshot().Batches[0]
	batch, err := s.ProcessBatch(context.Background(), "BATCH-001")
	require.NoError(t, err)
	assert.Equal(t, models.BatchProcessing, batch.Status)

	st := s.Snapshot()
	require.Len(t, st.Batches, 2)
	// Same slot, same identity fields, new status.
	assert.Equal(t, "BATCH-001", st.Batches[0].BatchID)
	assert.Equal(t, before.BatchDate, st.Batches[0].BatchDate)
	assert.Equal(t, before.TotalTransactions, st.Batches[0].TotalTransactions)
	assert.Equal(t, models.BatchProcessing, st.Batches[0].Status)
}

func TestCancelBatchRequiresReason(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchPending),
	}}
	s, notifier, _ := newTestStore(t, g)

	_, err := s.CancelBatch(context.Background(), "BATCH-001", "")
	require.Error(t, err)
	assert.Equal(t, "cancellation reason is required", s.Err())

	last, _ := notifier.last()
	assert.Equal(t, notify.LevelError, last.Level)
}

func TestCancelRejectionLeavesStateUntouched(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchCompleted),
	}}
	s, _, _ := newTestStore(t, g)
	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))

	_, err := s.CancelBatch(context.Background(), "BATCH-001", "operator request")
	require.Error(t, err)
	assert.Equal(t, "cannot cancel a completed batch", s.Err())

	// No local transition was forced.
	assert.Equal(t, models.BatchCompleted, s.Snapshot().Batches[0].Status)
}

func TestBulkProcessPartialRefetchesList(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchPending),
	}}
	s, notifier, _ := newTestStore(t, g)
	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))

	g.mu.Lock()
	hitsBefore := g.listHits
	g.mu.Unlock()

	processed, err := s.BulkProcessSettlements(context.Background(), []string{"S1", "S2", "S3"})
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	// The accepted count was lower than submitted, so the operator is warned
	// and the whole list is refetched rather than merged.
	last, _ := notifier.last()
	assert.Equal(t, notify.LevelWarning, last.Level)

	g.mu.Lock()
	assert.Equal(t, hitsBefore+1, g.listHits)
	g.mu.Unlock()
}

func TestRetrySettlementRefetchesDetailsOnly(t *testing.T) {
	g := &gateway{
		batches: []models.SettlementBatch{batchFixture("BATCH-001", "2025-01-15", models.BatchFailed)},
		details: map[string][]models.SettlementDetail{
			"BATCH-001": {{SettlementID: "S1", BatchID: "BATCH-001", SettlementStatus: models.SettlementFailed}},
		},
	}
	s, _, _ := newTestStore(t, g)
	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))
	require.NoError(t, s.FetchSettlementDetails(context.Background(), "BATCH-001"))

	g.mu.Lock()
	listBefore := g.listHits
	g.mu.Unlock()

	require.NoError(t, s.RetrySettlement(context.Background(), "S1"))

	g.mu.Lock()
	assert.Equal(t, 1, g.retryHits)
	assert.Equal(t, listBefore, g.listHits, "retry must not refetch the batch list")
	g.mu.Unlock()

	st := s.Snapshot()
	assert.Equal(t, "BATCH-001", st.SelectedBatchID)
	require.Len(t, st.SettlementDetails, 1)
}

func TestFetchStatisticsFailureStaysSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Tokens: stubTokens{}, Logger: logger})

	notifier := &recordingNotifier{}
	s := New(client.Settlements(), notifier, nil, logger)

	err := s.FetchStatistics(context.Background(), models.BatchFilter{})
	require.Error(t, err)

	// Dashboard widgets fail quietly: no toast, no store error.
	_, ok := notifier.last()
	assert.False(t, ok)
	assert.Empty(t, s.Err())
}

func TestFetchStatisticsIdempotent(t *testing.T) {
	g := &gateway{}
	s, _, _ := newTestStore(t, g)

	require.NoError(t, s.FetchStatistics(context.Background(), models.BatchFilter{}))
	first := s.Snapshot().Statistics
	require.NoError(t, s.FetchStatistics(context.Background(), models.BatchFilter{}))
	second := s.Snapshot().Statistics

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.TotalBatches, second.TotalBatches)
	assert.Equal(t, first.MatchRate, second.MatchRate)
}

func TestCreateReconciliationPrepends(t *testing.T) {
	g := &gateway{
		batches: []models.SettlementBatch{batchFixture("BATCH-001", "2025-01-15", models.BatchCompleted)},
		recons: []models.SettlementReconciliation{
			{ReconciliationID: "RECON-OLD", BatchID: "BATCH-000", Status: models.ReconciliationPending},
		},
	}
	s, _, _ := newTestStore(t, g)
	require.NoError(t, s.FetchReconciliations(context.Background(), models.ReconciliationFilter{}))

	rec, err := s.CreateReconciliation(context.Background(), "BATCH-001", decimal.NewFromFloat(976.4), "matches bank feed")
	require.NoError(t, err)
	assert.Equal(t, models.ReconciliationMatched, rec.Status)

	st := s.Snapshot()
	require.Len(t, st.Reconciliations, 2)
	assert.Equal(t, "RECON-NEW", st.Reconciliations[0].ReconciliationID)
	assert.Equal(t, "RECON-OLD", st.Reconciliations[1].ReconciliationID)
}

func TestCreateReconciliationRejectedForPendingBatch(t *testing.T) {
	g := &gateway{
		batches: []models.SettlementBatch{batchFixture("BATCH-001", "2025-01-15", models.BatchPending)},
	}
	s, _, _ := newTestStore(t, g)

	_, err := s.CreateReconciliation(context.Background(), "BATCH-001", decimal.NewFromInt(100), "")
	require.Error(t, err)
	assert.Equal(t, "only completed batches can be reconciled", s.Err())
	assert.Empty(t, s.Snapshot().Reconciliations)
}

func TestFixtureNetAmountsAreConsistent(t *testing.T) {
	b := batchFixture("BATCH-001", "2025-01-15", models.BatchPending)
	assert.True(t, b.NetAmountConsistent())

	b.NetSettlementAmount = decimal.NewFromInt(999)
	assert.False(t, b.NetAmountConsistent())
}

func TestExportSettlementsFromLoadedBatches(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchCompleted),
		batchFixture("BATCH-002", "2025-01-16", models.BatchPending),
	}}
	s, _, _ := newTestStore(t, g)
	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))

	data, name, err := s.ExportSettlements("csv")
	require.NoError(t, err)
	assert.Equal(t, "settlements-export.csv", name)
	assert.Contains(t, string(data), "BATCH-001")
	assert.Contains(t, string(data), "BATCH-002")

	_, _, err = s.ExportSettlements("docx")
	require.Error(t, err)
}

func TestLastErrorClearsOnSuccess(t *testing.T) {
	g := &gateway{batches: []models.SettlementBatch{
		batchFixture("BATCH-001", "2025-01-15", models.BatchPending),
	}}
	s, _, _ := newTestStore(t, g)

	_, err := s.CancelBatch(context.Background(), "BATCH-001", "")
	require.Error(t, err)
	require.NotEmpty(t, s.Err())

	require.NoError(t, s.FetchBatches(context.Background(), models.BatchFilter{}))
	assert.Empty(t, s.Err())
}
