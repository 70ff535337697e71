package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/notify"
)

type ComplianceHandler struct {
	api      *apiclient.ComplianceAPI
	notifier notify.Notifier
}

func NewComplianceHandler(api *apiclient.ComplianceAPI, notifier notify.Notifier) *ComplianceHandler {
	return &ComplianceHandler{api: api, notifier: notifier}
}

func (h *ComplianceHandler) ListAlerts(c *gin.Context) {
	list, err := h.api.ListAlerts(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list.Results, "count": list.Count})
}

type alertUpdateRequest struct {
	Status  string `json:"status" binding:"required,oneof=OPEN REVIEWED CLOSED"`
	Remarks string `json:"remarks"`
}

func (h *ComplianceHandler) UpdateAlert(c *gin.Context) {
	var req alertUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of OPEN, REVIEWED, CLOSED"})
		return
	}

	alert, err := h.api.UpdateAlert(c.Request.Context(), c.Param("alertId"), req.Status, req.Remarks)
	if err != nil {
		h.notifier.Error("Failed to update alert", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Info("Alert updated", alert.AlertID+" -> "+alert.Status)
	c.JSON(http.StatusOK, gin.H{"message": "alert updated", "alert": alert})
}
