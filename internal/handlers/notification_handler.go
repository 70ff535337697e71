package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/notify"
)

type NotificationHandler struct {
	hub *notify.Hub
}

func NewNotificationHandler(hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

func (h *NotificationHandler) Recent(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := parsePositiveInt(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	items := h.hub.Recent(limit)
	c.JSON(http.StatusOK, gin.H{"results": items, "count": len(items)})
}
