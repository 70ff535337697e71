package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/progress"
	"payment-operations-console/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens struct{}

func (stubTokens) Tokens() (string, string, string) { return "tok", "", "" }
func (stubTokens) SaveTokens(_, _ string) error     { return nil }
func (stubTokens) ClearTokens() error               { return nil }

// fakeGateway serves just enough of the settlements resource for the
// handler tests.
type fakeGateway struct {
	mu          sync.Mutex
	cancelHits  int
	processHits int
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/settlements/batches/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()

		switch {
		case r.URL.Path == "/settlements/batches/" && r.Method == http.MethodPost:
			var req struct {
				BatchDate string `json:"batch_date"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.SettlementBatch{
				BatchID:   "BATCH-NEW",
				BatchDate: req.BatchDate,
				Status:    models.BatchPending,
			})
		case strings.HasSuffix(r.URL.Path, "/cancel/"):
			g.cancelHits++
			json.NewEncoder(w).Encode(models.SettlementBatch{BatchID: "BATCH-001", Status: models.BatchCancelled})
		case strings.HasSuffix(r.URL.Path, "/process/"):
			g.processHits++
			json.NewEncoder(w).Encode(models.SettlementBatch{BatchID: "BATCH-001", Status: models.BatchProcessing})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "not found"})
		}
	})

	mux.HandleFunc("/settlements/statistics/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.SettlementStatistics{TotalBatches: 12, MatchRate: 87.5})
	})

	return mux
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeGateway) {
	t.Helper()

	g := &fakeGateway{}
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Tokens: stubTokens{}, Logger: logger})
	st := store.New(client.Settlements(), notify.NewHub(logger), nil, logger)
	// Slow enough that an overlapping process request reliably lands while
	// the first sequence is still in flight.
	runner := progress.NewRunner(50*time.Millisecond, logger)
	h := NewSettlementHandler(st, runner)

	r := gin.New()
	r.GET("/api/settlements/batches", h.ListBatches)
	r.POST("/api/settlements/batches", h.CreateBatch)
	r.POST("/api/settlements/batches/:batchId/process", h.ProcessBatch)
	r.GET("/api/settlements/batches/:batchId/progress", h.Progress)
	r.POST("/api/settlements/batches/:batchId/cancel", h.CancelBatch)
	r.GET("/api/settlements/statistics", h.Statistics)
	return r, g
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBatchImpliesPreviousTransactionDate(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/settlements/batches", `{"batch_date": "2025-01-15"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ImpliedTransactionDate string `json:"implied_transaction_date"`
		Batch                  struct {
			BatchID   string `json:"batch_id"`
			BatchDate string `json:"batch_date"`
		} `json:"batch"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// A batch for date D settles the previous day's transactions.
	assert.Equal(t, "2025-01-14", resp.ImpliedTransactionDate)
	assert.Equal(t, "2025-01-15", resp.Batch.BatchDate)
	assert.Equal(t, "BATCH-NEW", resp.Batch.BatchID)
}

func TestCreateBatchRejectsMalformedDate(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/settlements/batches", `{"batch_date": "15-01-2025"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBatchRequiresReason(t *testing.T) {
	r, g := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/settlements/batches/BATCH-001/cancel", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	g.mu.Lock()
	assert.Equal(t, 0, g.cancelHits, "gateway must not be called without a reason")
	g.mu.Unlock()

	w = doJSON(r, http.MethodPost, "/api/settlements/batches/BATCH-001/cancel", `{"reason": "duplicate run"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	g.mu.Lock()
	assert.Equal(t, 1, g.cancelHits)
	g.mu.Unlock()
}

func TestListBatchesValidatesDateRange(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/settlements/batches?date_from=2025-02-01&date_to=2025-01-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatisticsIncludesMatchRateChip(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/settlements/statistics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MatchRateDisplay  string `json:"match_rate_display"`
		MatchRateSeverity string `json:"match_rate_severity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "87.5%", resp.MatchRateDisplay)
	assert.Equal(t, "success", resp.MatchRateSeverity)
}

func TestProcessBatchStartsSequenceAndReportsProgress(t *testing.T) {
	r, g := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/settlements/batches/BATCH-001/process", "")
	require.Equal(t, http.StatusAccepted, w.Code)

	// A second request while the sequence runs is rejected, not doubled.
	w = doJSON(r, http.MethodPost, "/api/settlements/batches/BATCH-001/process", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Eventually(t, func() bool {
		w := doJSON(r, http.MethodGet, "/api/settlements/batches/BATCH-001/progress", "")
		if w.Code != http.StatusOK {
			return false
		}
		var snap progress.Snapshot
		if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
			return false
		}
		return snap.Done && snap.Error == ""
	}, 3*time.Second, 5*time.Millisecond)

	g.mu.Lock()
	assert.Equal(t, 1, g.processHits)
	g.mu.Unlock()
}
