package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/status"
)

type ClientHandler struct {
	api      *apiclient.ClientsAPI
	notifier notify.Notifier
}

func NewClientHandler(api *apiclient.ClientsAPI, notifier notify.Notifier) *ClientHandler {
	return &ClientHandler{api: api, notifier: notifier}
}

func (h *ClientHandler) List(c *gin.Context) {
	page, pageSize := 0, 0
	if v := c.Query("page"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			pageSize = n
		}
	}

	list, err := h.api.List(c.Request.Context(), c.Query("search"), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list.Results, "count": list.Count})
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.api.Get(c.Request.Context(), c.Param("clientCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client":    client,
		"kyc_style": status.ForKYC(client.KYCStatus),
	})
}

type clientStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE SUSPENDED INACTIVE"`
}

func (h *ClientHandler) SetStatus(c *gin.Context) {
	var req clientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be ACTIVE, SUSPENDED or INACTIVE"})
		return
	}

	client, err := h.api.SetStatus(c.Request.Context(), c.Param("clientCode"), req.Status)
	if err != nil {
		h.notifier.Error("Failed to update client status", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Client status updated", client.ClientCode+" is now "+client.Status)
	c.JSON(http.StatusOK, gin.H{"message": "client status updated", "client": client})
}

func (h *ClientHandler) KYCDocuments(c *gin.Context) {
	list, err := h.api.KYCDocuments(c.Request.Context(), c.Param("clientCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list.Results, "count": list.Count})
}
