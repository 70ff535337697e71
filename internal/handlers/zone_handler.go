package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
)

type ZoneHandler struct {
	api      *apiclient.ZonesAPI
	notifier notify.Notifier
}

func NewZoneHandler(api *apiclient.ZonesAPI, notifier notify.Notifier) *ZoneHandler {
	return &ZoneHandler{api: api, notifier: notifier}
}

func (h *ZoneHandler) List(c *gin.Context) {
	list, err := h.api.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list.Results, "count": list.Count})
}

type zoneRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	IPRanges    []string `json:"ip_ranges"`
	Roles       []string `json:"roles"`
	Active      bool     `json:"active"`
}

func (h *ZoneHandler) Create(c *gin.Context) {
	var req zoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "zone name is required"})
		return
	}

	zone, err := h.api.Create(c.Request.Context(), models.Zone{
		Name:        req.Name,
		Description: req.Description,
		IPRanges:    req.IPRanges,
		Roles:       req.Roles,
		Active:      req.Active,
	})
	if err != nil {
		h.notifier.Error("Failed to create zone", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Zone created", zone.Name)
	c.JSON(http.StatusCreated, gin.H{"message": "zone created", "zone": zone})
}

func (h *ZoneHandler) Update(c *gin.Context) {
	var req zoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "zone name is required"})
		return
	}

	zone, err := h.api.Update(c.Request.Context(), c.Param("zoneId"), models.Zone{
		Name:        req.Name,
		Description: req.Description,
		IPRanges:    req.IPRanges,
		Roles:       req.Roles,
		Active:      req.Active,
	})
	if err != nil {
		h.notifier.Error("Failed to update zone", err.Error())
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "zone updated", "zone": zone})
}

func (h *ZoneHandler) Delete(c *gin.Context) {
	if err := h.api.Delete(c.Request.Context(), c.Param("zoneId")); err != nil {
		h.notifier.Error("Failed to delete zone", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Warning("Zone deleted", c.Param("zoneId"))
	c.JSON(http.StatusOK, gin.H{"message": "zone deleted"})
}
