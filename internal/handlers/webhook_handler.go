package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/notify"
)

type WebhookHandler struct {
	api      *apiclient.WebhooksAPI
	notifier notify.Notifier
}

func NewWebhookHandler(api *apiclient.WebhooksAPI, notifier notify.Notifier) *WebhookHandler {
	return &WebhookHandler{api: api, notifier: notifier}
}

func (h *WebhookHandler) List(c *gin.Context) {
	list, err := h.api.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list.Results, "count": list.Count})
}

type createWebhookRequest struct {
	URL    string   `json:"url" binding:"required,url"`
	Events []string `json:"events" binding:"required,min=1"`
}

func (h *WebhookHandler) Create(c *gin.Context) {
	var req createWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid url and at least one event are required"})
		return
	}

	wh, err := h.api.Create(c.Request.Context(), req.URL, req.Events)
	if err != nil {
		h.notifier.Error("Failed to create webhook", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Webhook created", wh.URL)
	c.JSON(http.StatusCreated, gin.H{"message": "webhook created", "webhook": wh})
}

type updateWebhookRequest struct {
	Active bool     `json:"active"`
	Events []string `json:"events" binding:"required,min=1"`
}

func (h *WebhookHandler) Update(c *gin.Context) {
	var req updateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one event is required"})
		return
	}

	wh, err := h.api.Update(c.Request.Context(), c.Param("webhookId"), req.Active, req.Events)
	if err != nil {
		h.notifier.Error("Failed to update webhook", err.Error())
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "webhook updated", "webhook": wh})
}

func (h *WebhookHandler) Delete(c *gin.Context) {
	if err := h.api.Delete(c.Request.Context(), c.Param("webhookId")); err != nil {
		h.notifier.Error("Failed to delete webhook", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Warning("Webhook deleted", c.Param("webhookId"))
	c.JSON(http.StatusOK, gin.H{"message": "webhook deleted"})
}

func (h *WebhookHandler) Deliveries(c *gin.Context) {
	list, err := h.api.Deliveries(c.Request.Context(), c.Param("webhookId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list.Results, "count": list.Count})
}

func (h *WebhookHandler) TestFire(c *gin.Context) {
	if err := h.api.TestFire(c.Request.Context(), c.Param("webhookId")); err != nil {
		h.notifier.Error("Webhook test failed", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Webhook test sent", c.Param("webhookId"))
	c.JSON(http.StatusOK, gin.H{"message": "test event sent"})
}
