package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/status"
)

type DisputeHandler struct {
	api      *apiclient.DisputesAPI
	notifier notify.Notifier
}

func NewDisputeHandler(api *apiclient.DisputesAPI, notifier notify.Notifier) *DisputeHandler {
	return &DisputeHandler{api: api, notifier: notifier}
}

func (h *DisputeHandler) List(c *gin.Context) {
	var f models.DisputeFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}

	list, err := h.api.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	type disputeView struct {
		models.Dispute
		Style status.Style `json:"style"`
	}
	views := make([]disputeView, 0, len(list.Results))
	for _, d := range list.Results {
		views = append(views, disputeView{Dispute: d, Style: status.ForDispute(d.Status)})
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "count": list.Count})
}

func (h *DisputeHandler) Get(c *gin.Context) {
	dispute, err := h.api.Get(c.Request.Context(), c.Param("disputeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dispute": dispute})
}

type disputeTransitionRequest struct {
	Status  string `json:"status" binding:"required,oneof=OPEN INVESTIGATING RESOLVED REJECTED ESCALATED"`
	Remarks string `json:"remarks"`
}

func (h *DisputeHandler) Transition(c *gin.Context) {
	var req disputeTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be a valid dispute status"})
		return
	}

	dispute, err := h.api.Transition(c.Request.Context(), c.Param("disputeId"), req.Status, req.Remarks)
	if err != nil {
		h.notifier.Error("Failed to update dispute", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Dispute updated", dispute.DisputeID+" is now "+dispute.Status)
	c.JSON(http.StatusOK, gin.H{"message": "dispute updated", "dispute": dispute})
}

type evidenceRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (h *DisputeHandler) AddEvidence(c *gin.Context) {
	var req evidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid evidence url is required"})
		return
	}

	dispute, err := h.api.AddEvidence(c.Request.Context(), c.Param("disputeId"), req.URL)
	if err != nil {
		h.notifier.Error("Failed to attach evidence", err.Error())
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "evidence attached", "dispute": dispute})
}
