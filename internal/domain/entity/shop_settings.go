package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopSettings holds per-tenant business details and document defaults.
// Exactly one row exists per tenant; it is created with defaults on first read.
type ShopSettings struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	BusinessName          string    `gorm:"size:255" json:"business_name"`
	Address               string    `gorm:"type:text" json:"address"`
	Phone                 string    `gorm:"size:50" json:"phone"`
	Email                 string    `gorm:"size:255" json:"email"`
	TaxID                 string    `gorm:"size:50" json:"tax_id"`
	Currency              string    `gorm:"size:10;not null" json:"currency"`
	TaxLabel              string    `gorm:"size:30;not null" json:"tax_label"`
	DefaultMarginPercent  float64   `gorm:"type:decimal(7,2);not null" json:"default_margin_percent"`
	DefaultTaxRatePercent float64   `gorm:"type:decimal(7,3);not null" json:"default_tax_rate_percent"`
	InvoiceDueDays        int       `gorm:"not null" json:"invoice_due_days"`
	QuotePrefix           string    `gorm:"size:10;not null" json:"quote_prefix"`
	JobPrefix             string    `gorm:"size:10;not null" json:"job_prefix"`
	InvoicePrefix         string    `gorm:"size:10;not null" json:"invoice_prefix"`
	PurchaseOrderPrefix   string    `gorm:"size:10;not null" json:"purchase_order_prefix"`
	InvoiceFooter         string    `gorm:"type:text" json:"invoice_footer"`
	EmailOnInvoiceIssued  bool      `gorm:"not null" json:"email_on_invoice_issued"`
	LowStockAlerts        bool      `gorm:"not null" json:"low_stock_alerts"`
	NotifyOwnerByEmail    bool      `gorm:"not null" json:"notify_owner_by_email"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating settings
func (s *ShopSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ShopSettings model
func (ShopSettings) TableName() string {
	return "shop_settings"
}

// Prefix returns the numbering prefix configured for a document kind
func (s *ShopSettings) Prefix(kind DocumentKind) string {
	switch kind {
	case DocumentKindQuote:
		return s.QuotePrefix
	case DocumentKindJob:
		return s.JobPrefix
	case DocumentKindInvoice:
		return s.InvoicePrefix
	case DocumentKindPurchaseOrder:
		return s.PurchaseOrderPrefix
	}
	return ""
}

// DefaultShopSettings returns the settings a new tenant starts with
func DefaultShopSettings(tenantID uuid.UUID) *ShopSettings {
	return &ShopSettings{
		TenantID:              tenantID,
		Currency:              "USD",
		TaxLabel:              "Tax",
		DefaultMarginPercent:  0,
		DefaultTaxRatePercent: 0,
		InvoiceDueDays:        14,
		QuotePrefix:           "Q-",
		JobPrefix:             "J-",
		InvoicePrefix:         "INV-",
		PurchaseOrderPrefix:   "PO-",
		InvoiceFooter:         "Thank you for your business.",
		EmailOnInvoiceIssued:  false,
		LowStockAlerts:        true,
		NotifyOwnerByEmail:    false,
	}
}
