package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/status"
)

type KYCHandler struct {
	api      *apiclient.KYCAPI
	notifier notify.Notifier
}

func NewKYCHandler(api *apiclient.KYCAPI, notifier notify.Notifier) *KYCHandler {
	return &KYCHandler{api: api, notifier: notifier}
}

func (h *KYCHandler) ListDocuments(c *gin.Context) {
	list, err := h.api.ListDocuments(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	type docView struct {
		models.KYCDocument
		Style status.Style `json:"style"`
	}
	views := make([]docView, 0, len(list.Results))
	for _, d := range list.Results {
		views = append(views, docView{KYCDocument: d, Style: status.ForKYC(d.Status)})
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "count": list.Count})
}

type kycActionRequest struct {
	Remarks string `json:"remarks"`
}

func (h *KYCHandler) Verify(c *gin.Context) {
	var req kycActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	doc, err := h.api.Verify(c.Request.Context(), c.Param("documentId"), req.Remarks)
	if err != nil {
		h.notifier.Error("Failed to verify document", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Document verified", doc.DocumentID)
	c.JSON(http.StatusOK, gin.H{"message": "document verified", "document": doc})
}

type kycRejectRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

func (h *KYCHandler) Reject(c *gin.Context) {
	var req kycRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rejection remarks are required"})
		return
	}

	doc, err := h.api.Reject(c.Request.Context(), c.Param("documentId"), req.Remarks)
	if err != nil {
		h.notifier.Error("Failed to reject document", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Warning("Document rejected", doc.DocumentID+": "+req.Remarks)
	c.JSON(http.StatusOK, gin.H{"message": "document rejected", "document": doc})
}

// Statistics renders the verification-rate widget with its severity.
func (h *KYCHandler) Statistics(c *gin.Context) {
	stats, err := h.api.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statistics":                 stats,
		"verification_rate_display":  status.FormatRate(stats.VerificationRate),
		"verification_rate_severity": status.ClassifyVerificationRate(stats.VerificationRate),
	})
}
