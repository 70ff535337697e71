package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"payment-operations-console/internal/models"
	"payment-operations-console/internal/progress"
	"payment-operations-console/internal/status"
	"payment-operations-console/internal/store"
)

var validate = validator.New()

// SettlementHandler is the settlements page family: batch list, batch detail,
// reconciliation overview, reports and exports. It only translates requests
// into store actions and store state into responses.
type SettlementHandler struct {
	store  *store.SettlementStore
	runner *progress.Runner
}

func NewSettlementHandler(s *store.SettlementStore, runner *progress.Runner) *SettlementHandler {
	return &SettlementHandler{store: s, runner: runner}
}

type batchView struct {
	models.SettlementBatch
	Style status.Style `json:"style"`
	// Actions the UI may offer for this batch in its current status.
	CanProcess bool `json:"can_process"`
	CanCancel  bool `json:"can_cancel"`
}

func toBatchViews(batches []models.SettlementBatch) []batchView {
	views := make([]batchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, batchView{
			SettlementBatch: b,
			Style:           status.ForBatch(b.Status),
			CanProcess:      status.BatchProcessable(b.Status),
			CanCancel:       !status.BatchTerminal(b.Status),
		})
	}
	return views
}

func (h *SettlementHandler) ListBatches(c *gin.Context) {
	var f models.BatchFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}
	if !validDateRange(f.DateFrom, f.DateTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must not be after date_to"})
		return
	}

	if err := h.store.FetchBatches(c.Request.Context(), f); err != nil {
		respondError(c, err)
		return
	}

	st := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"results":    toBatchViews(st.Batches),
		"count":      st.TotalCount,
		"page":       st.CurrentPage,
		"page_size":  st.PageSize,
		"is_loading": st.IsLoading,
	})
}

type createBatchRequest struct {
	BatchDate string `json:"batch_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateBatch creates a settlement run. The T+1 rule is presented here:
// a batch created for date D settles transactions dated D-1. The implied
// date is computed for display only; the store forwards the literal string.
func (h *SettlementHandler) CreateBatch(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch_date must be YYYY-MM-DD"})
		return
	}

	batch, err := h.store.CreateBatch(c.Request.Context(), req.BatchDate)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"message": "settlement batch created", "batch": batchView{
		SettlementBatch: batch,
		Style:           status.ForBatch(batch.Status),
		CanProcess:      status.BatchProcessable(batch.Status),
		CanCancel:       !status.BatchTerminal(batch.Status),
	}}
	if d, err := parseDate(batch.BatchDate); err == nil {
		resp["implied_transaction_date"] = d.AddDate(0, 0, -1).Format(dateLayout)
	}
	c.JSON(http.StatusCreated, resp)
}

// ProcessBatch kicks off the stepped processing sequence. The real gateway
// call runs inside the sequence; the page polls Progress for step state.
func (h *SettlementHandler) ProcessBatch(c *gin.Context) {
	batchID := c.Param("batchId")

	started := h.runner.Start(context.Background(), batchID, func(ctx context.Context) error {
		_, err := h.store.ProcessBatch(ctx, batchID)
		return err
	})
	if !started {
		c.JSON(http.StatusConflict, gin.H{"error": "batch is already being processed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "processing started", "batch_id": batchID})
}

func (h *SettlementHandler) Progress(c *gin.Context) {
	snap, ok := h.runner.Snapshot(c.Param("batchId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no processing sequence for batch"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

type approveRequest struct {
	Notes string `json:"notes"`
}

func (h *SettlementHandler) ApproveBatch(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	batch, err := h.store.ApproveBatch(c.Request.Context(), c.Param("batchId"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch approved", "batch": batch})
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *SettlementHandler) CancelBatch(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation reason is required"})
		return
	}

	batch, err := h.store.CancelBatch(c.Request.Context(), c.Param("batchId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch cancelled", "batch": batch})
}

func (h *SettlementHandler) GetBatch(c *gin.Context) {
	if err := h.store.FetchBatchDetails(c.Request.Context(), c.Param("batchId")); err != nil {
		respondError(c, err)
		return
	}

	st := h.store.Snapshot()
	if st.CurrentBatch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batchView{
		SettlementBatch: *st.CurrentBatch,
		Style:           status.ForBatch(st.CurrentBatch.Status),
		CanProcess:      status.BatchProcessable(st.CurrentBatch.Status),
		CanCancel:       !status.BatchTerminal(st.CurrentBatch.Status),
	}})
}

func (h *SettlementHandler) ListDetails(c *gin.Context) {
	if err := h.store.FetchSettlementDetails(c.Request.Context(), c.Param("batchId")); err != nil {
		respondError(c, err)
		return
	}

	st := h.store.Snapshot()
	type detailView struct {
		models.SettlementDetail
		Style status.Style `json:"style"`
	}
	views := make([]detailView, 0, len(st.SettlementDetails))
	for _, d := range st.SettlementDetails {
		views = append(views, detailView{SettlementDetail: d, Style: status.ForSettlement(d.SettlementStatus)})
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "count": len(views)})
}

func (h *SettlementHandler) RetrySettlement(c *gin.Context) {
	if err := h.store.RetrySettlement(c.Request.Context(), c.Param("settlementId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settlement retry submitted"})
}

type bulkProcessRequest struct {
	SettlementIDs []string `json:"settlement_ids" binding:"required,min=1"`
}

func (h *SettlementHandler) BulkProcess(c *gin.Context) {
	var req bulkProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settlement_ids is required"})
		return
	}

	processed, err := h.store.BulkProcessSettlements(c.Request.Context(), req.SettlementIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "bulk processing submitted",
		"processed": processed,
		"submitted": len(req.SettlementIDs),
	})
}

// Statistics backs the reconciliation overview widget, including the
// match-rate chip with its severity classification.
func (h *SettlementHandler) Statistics(c *gin.Context) {
	var f models.BatchFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}

	if err := h.store.FetchStatistics(c.Request.Context(), f); err != nil {
		respondError(c, err)
		return
	}

	st := h.store.Snapshot()
	if st.Statistics == nil {
		c.JSON(http.StatusOK, gin.H{"statistics": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statistics":          st.Statistics,
		"match_rate_display":  status.FormatRate(st.Statistics.MatchRate),
		"match_rate_severity": status.ClassifyMatchRate(st.Statistics.MatchRate),
	})
}

func (h *SettlementHandler) Activities(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}

	if err := h.store.FetchActivities(c.Request.Context(), limit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": h.store.Snapshot().Activities})
}

func (h *SettlementHandler) CycleDistribution(c *gin.Context) {
	if err := h.store.FetchCycleDistribution(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": h.store.Snapshot().CycleDistribution})
}
