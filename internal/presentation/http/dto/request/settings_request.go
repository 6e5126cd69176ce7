package request

// UpdateSettingsRequest represents a shop settings update
type UpdateSettingsRequest struct {
	BusinessName          *string  `json:"business_name" binding:"omitempty,max=255"`
	Address               *string  `json:"address"`
	Phone                 *string  `json:"phone" binding:"omitempty,max=50"`
	Email                 *string  `json:"email" binding:"omitempty,email"`
	TaxID                 *string  `json:"tax_id" binding:"omitempty,max=100"`
	Currency              *string  `json:"currency" binding:"omitempty,len=3"`
	TaxLabel              *string  `json:"tax_label" binding:"omitempty,max=50"`
	DefaultMarginPercent  *float64 `json:"default_margin_percent"`
	DefaultTaxRatePercent *float64 `json:"default_tax_rate_percent"`
	InvoiceDueDays        *int     `json:"invoice_due_days"`
	QuotePrefix           *string  `json:"quote_prefix" binding:"omitempty,max=20"`
	JobPrefix             *string  `json:"job_prefix" binding:"omitempty,max=20"`
	InvoicePrefix         *string  `json:"invoice_prefix" binding:"omitempty,max=20"`
	PurchaseOrderPrefix   *string  `json:"purchase_order_prefix" binding:"omitempty,max=20"`
	InvoiceFooter         *string  `json:"invoice_footer"`
	EmailOnInvoiceIssued  *bool    `json:"email_on_invoice_issued"`
	LowStockAlerts        *bool    `json:"low_stock_alerts"`
	NotifyOwnerByEmail    *bool    `json:"notify_owner_by_email"`
}
