package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/status"
)

// RefundHandler is the refunds page. It talks to the gateway directly; only
// the settlements pages share the orchestration store.
type RefundHandler struct {
	api      *apiclient.RefundsAPI
	notifier notify.Notifier
}

func NewRefundHandler(api *apiclient.RefundsAPI, notifier notify.Notifier) *RefundHandler {
	return &RefundHandler{api: api, notifier: notifier}
}

func (h *RefundHandler) List(c *gin.Context) {
	var f models.RefundFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}
	if !validDateRange(f.DateFrom, f.DateTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must not be after date_to"})
		return
	}

	list, err := h.api.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	type refundView struct {
		models.RefundRequest
		Style status.Style `json:"style"`
	}
	views := make([]refundView, 0, len(list.Results))
	for _, r := range list.Results {
		views = append(views, refundView{RefundRequest: r, Style: status.ForRefund(r.Status)})
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "count": list.Count})
}

func (h *RefundHandler) Get(c *gin.Context) {
	refund, err := h.api.Get(c.Request.Context(), c.Param("refundId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund": refund})
}

type refundActionRequest struct {
	Remarks string `json:"remarks"`
}

func (h *RefundHandler) Approve(c *gin.Context) {
	var req refundActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	refund, err := h.api.Approve(c.Request.Context(), c.Param("refundId"), req.Remarks)
	if err != nil {
		h.notifier.Error("Failed to approve refund", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Refund approved", refund.RefundID)
	c.JSON(http.StatusOK, gin.H{"message": "refund approved", "refund": refund})
}

type refundRejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *RefundHandler) Reject(c *gin.Context) {
	var req refundRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rejection reason is required"})
		return
	}

	refund, err := h.api.Reject(c.Request.Context(), c.Param("refundId"), req.Reason)
	if err != nil {
		h.notifier.Error("Failed to reject refund", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Warning("Refund rejected", refund.RefundID+": "+req.Reason)
	c.JSON(http.StatusOK, gin.H{"message": "refund rejected", "refund": refund})
}

func (h *RefundHandler) Process(c *gin.Context) {
	refund, err := h.api.Process(c.Request.Context(), c.Param("refundId"))
	if err != nil {
		h.notifier.Error("Failed to process refund", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Refund processing", refund.RefundID+" is now "+refund.Status)
	c.JSON(http.StatusOK, gin.H{"message": "refund processing", "refund": refund})
}
