package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/status"
)

// TxnReconHandler is the transaction-reconciliation page: bank statement
// lines versus gateway transactions, with confirm/reject/manual-match.
type TxnReconHandler struct {
	api      *apiclient.TransactionsAPI
	notifier notify.Notifier
}

func NewTxnReconHandler(api *apiclient.TransactionsAPI, notifier notify.Notifier) *TxnReconHandler {
	return &TxnReconHandler{api: api, notifier: notifier}
}

func (h *TxnReconHandler) List(c *gin.Context) {
	var f models.TxnReconFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}

	list, err := h.api.ListReconciliation(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	type recordView struct {
		models.TxnReconRecord
		Style status.Style `json:"style"`
	}
	views := make([]recordView, 0, len(list.Results))
	for _, r := range list.Results {
		views = append(views, recordView{TxnReconRecord: r, Style: status.ForTxnRecon(r.Status)})
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "count": list.Count})
}

func (h *TxnReconHandler) Confirm(c *gin.Context) {
	record, err := h.api.ConfirmMatch(c.Request.Context(), c.Param("recordId"))
	if err != nil {
		h.notifier.Error("Failed to confirm match", err.Error())
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "match confirmed", "record": record})
}

func (h *TxnReconHandler) Reject(c *gin.Context) {
	record, err := h.api.RejectMatch(c.Request.Context(), c.Param("recordId"))
	if err != nil {
		h.notifier.Error("Failed to reject match", err.Error())
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "match rejected", "record": record})
}

type manualMatchRequest struct {
	TxnID string `json:"txn_id" binding:"required"`
}

func (h *TxnReconHandler) ManualMatch(c *gin.Context) {
	var req manualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "txn_id is required"})
		return
	}

	record, err := h.api.ManualMatch(c.Request.Context(), c.Param("recordId"), req.TxnID)
	if err != nil {
		h.notifier.Error("Failed to match transaction", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Transaction matched", c.Param("recordId")+" -> "+req.TxnID)
	c.JSON(http.StatusOK, gin.H{"message": "transaction matched", "record": record})
}
