package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles shop settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the current shop's settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates the current shop's settings. Omitted fields keep their value.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		BusinessName:          req.BusinessName,
		Address:               req.Address,
		Phone:                 req.Phone,
		Email:                 req.Email,
		TaxID:                 req.TaxID,
		Currency:              req.Currency,
		TaxLabel:              req.TaxLabel,
		DefaultMarginPercent:  req.DefaultMarginPercent,
		DefaultTaxRatePercent: req.DefaultTaxRatePercent,
		InvoiceDueDays:        req.InvoiceDueDays,
		QuotePrefix:           req.QuotePrefix,
		JobPrefix:             req.JobPrefix,
		InvoicePrefix:         req.InvoicePrefix,
		PurchaseOrderPrefix:   req.PurchaseOrderPrefix,
		InvoiceFooter:         req.InvoiceFooter,
		EmailOnInvoiceIssued:  req.EmailOnInvoiceIssued,
		LowStockAlerts:        req.LowStockAlerts,
		NotifyOwnerByEmail:    req.NotifyOwnerByEmail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
