package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"payment-operations-console/internal/models"
	"payment-operations-console/internal/status"
	"payment-operations-console/internal/store"
)

// ReconciliationHandler covers settlement reconciliations and the report
// lifecycle, both backed by the orchestration store.
type ReconciliationHandler struct {
	store *store.SettlementStore
}

func NewReconciliationHandler(s *store.SettlementStore) *ReconciliationHandler {
	return &ReconciliationHandler{store: s}
}

func (h *ReconciliationHandler) List(c *gin.Context) {
	var f models.ReconciliationFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}
	if !validDateRange(f.DateFrom, f.DateTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must not be after date_to"})
		return
	}

	if err := h.store.FetchReconciliations(c.Request.Context(), f); err != nil {
		respondError(c, err)
		return
	}

	st := h.store.Snapshot()
	type reconView struct {
		models.SettlementReconciliation
		Style status.Style `json:"style"`
	}
	views := make([]reconView, 0, len(st.Reconciliations))
	for _, r := range st.Reconciliations {
		views = append(views, reconView{SettlementReconciliation: r, Style: status.ForReconciliation(r.Status)})
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "count": len(views)})
}

type createReconciliationRequest struct {
	BatchID             string          `json:"batch_id" binding:"required"`
	BankStatementAmount decimal.Decimal `json:"bank_statement_amount" binding:"required"`
	Remarks             string          `json:"remarks"`
}

// Create records a bank figure against a batch. The COMPLETED-only rule is
// the gateway's; its rejection comes back through respondError untouched.
func (h *ReconciliationHandler) Create(c *gin.Context) {
	var req createReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch_id and bank_statement_amount are required"})
		return
	}

	rec, err := h.store.CreateReconciliation(c.Request.Context(), req.BatchID, req.BankStatementAmount, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "reconciliation recorded", "reconciliation": rec})
}

type updateReconciliationRequest struct {
	Status  string `json:"status" binding:"required,oneof=MATCHED MISMATCHED PENDING"`
	Remarks string `json:"remarks"`
}

func (h *ReconciliationHandler) Update(c *gin.Context) {
	var req updateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be MATCHED, MISMATCHED or PENDING"})
		return
	}

	rec, err := h.store.UpdateReconciliation(c.Request.Context(), c.Param("reconciliationId"), req.Status, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation updated", "reconciliation": rec})
}

type generateReportRequest struct {
	ReportType string `json:"report_type" binding:"required"`
	DateFrom   string `json:"date_from" binding:"required"`
	DateTo     string `json:"date_to" binding:"required"`
}

func (h *ReconciliationHandler) GenerateReport(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report_type, date_from and date_to are required"})
		return
	}
	if !validDateRange(req.DateFrom, req.DateTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must not be after date_to"})
		return
	}

	report, err := h.store.GenerateReport(c.Request.Context(), req.ReportType, req.DateFrom, req.DateTo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "report requested", "report": report})
}

func (h *ReconciliationHandler) ListReports(c *gin.Context) {
	if err := h.store.FetchReports(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": h.store.Snapshot().Reports})
}

func (h *ReconciliationHandler) DownloadReport(c *gin.Context) {
	data, filename, err := h.store.DownloadReport(c.Request.Context(), c.Param("reportId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

var exportContentTypes = map[string]string{
	"csv":  "text/csv",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Export downloads the batch list in the requested format. By default the
// export is built locally from the loaded page so it matches the table on
// screen; scope=all asks the gateway for the full filtered dataset instead.
func (h *ReconciliationHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	contentType, ok := exportContentTypes[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	var (
		data     []byte
		filename string
		err      error
	)
	if c.Query("scope") == "all" {
		data, filename, err = h.store.ExportAllSettlements(c.Request.Context(), format)
	} else {
		data, filename, err = h.store.ExportSettlements(format)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
