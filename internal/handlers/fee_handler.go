package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
)

type FeeHandler struct {
	api      *apiclient.FeesAPI
	notifier notify.Notifier
}

func NewFeeHandler(api *apiclient.FeesAPI, notifier notify.Notifier) *FeeHandler {
	return &FeeHandler{api: api, notifier: notifier}
}

func (h *FeeHandler) List(c *gin.Context) {
	list, err := h.api.List(c.Request.Context(), c.Query("client_code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list.Results, "count": list.Count})
}

type feeRequest struct {
	ClientCode    string          `json:"client_code" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	FeePercent    decimal.Decimal `json:"fee_percent"`
	FlatFee       decimal.Decimal `json:"flat_fee"`
	GSTPercent    decimal.Decimal `json:"gst_percent"`
	EffectiveFrom string          `json:"effective_from" binding:"required"`
	EffectiveTo   *string         `json:"effective_to"`
}

func (r feeRequest) validateAmounts() string {
	if r.FeePercent.IsNegative() || r.FlatFee.IsNegative() || r.GSTPercent.IsNegative() {
		return "fee values must not be negative"
	}
	hundred := decimal.NewFromInt(100)
	if r.FeePercent.GreaterThan(hundred) || r.GSTPercent.GreaterThan(hundred) {
		return "percentages must not exceed 100"
	}
	return ""
}

func (h *FeeHandler) Create(c *gin.Context) {
	var req feeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_code, payment_method and effective_from are required"})
		return
	}
	if msg := req.validateAmounts(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	fee, err := h.api.Create(c.Request.Context(), models.FeeConfiguration{
		ClientCode:    req.ClientCode,
		PaymentMethod: req.PaymentMethod,
		FeePercent:    req.FeePercent,
		FlatFee:       req.FlatFee,
		GSTPercent:    req.GSTPercent,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	})
	if err != nil {
		h.notifier.Error("Failed to create fee configuration", err.Error())
		respondError(c, err)
		return
	}
	h.notifier.Success("Fee configuration created", fee.ClientCode+" / "+fee.PaymentMethod)
	c.JSON(http.StatusCreated, gin.H{"message": "fee configuration created", "fee": fee})
}

func (h *FeeHandler) Update(c *gin.Context) {
	var req feeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_code, payment_method and effective_from are required"})
		return
	}
	if msg := req.validateAmounts(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	fee, err := h.api.Update(c.Request.Context(), c.Param("feeId"), models.FeeConfiguration{
		ClientCode:    req.ClientCode,
		PaymentMethod: req.PaymentMethod,
		FeePercent:    req.FeePercent,
		FlatFee:       req.FlatFee,
		GSTPercent:    req.GSTPercent,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	})
	if err != nil {
		h.notifier.Error("Failed to update fee configuration", err.Error())
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fee configuration updated", "fee": fee})
}
