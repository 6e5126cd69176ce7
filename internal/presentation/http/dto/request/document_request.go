package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
)

// DocumentFilterRequest represents quote and job list parameters
type DocumentFilterRequest struct {
	ListQuery
	Status     string `form:"status"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

// InvoiceFilterRequest represents invoice list and export parameters.
// Dates are YYYY-MM-DD and bound the issue date.
type InvoiceFilterRequest struct {
	DocumentFilterRequest
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Overdue   bool   `form:"overdue"`
}

// CreateQuoteRequest represents a quote creation request
type CreateQuoteRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	Title         string            `json:"title" binding:"required,max=255"`
	Items         pricing.LineItems `json:"items"`
	MarginPercent *float64          `json:"margin_percent" binding:"omitempty,min=0"`
	ValidUntil    *time.Time        `json:"valid_until"`
	Notes         *string           `json:"notes"`
}

// UpdateQuoteRequest represents a quote update request. Items, when present,
// replace every line of the quote.
type UpdateQuoteRequest struct {
	CustomerID    *uuid.UUID         `json:"customer_id"`
	Title         *string            `json:"title" binding:"omitempty,min=1,max=255"`
	Items         *pricing.LineItems `json:"items"`
	MarginPercent *float64           `json:"margin_percent" binding:"omitempty,min=0"`
	ValidUntil    *time.Time         `json:"valid_until"`
	Notes         *string            `json:"notes"`
}

// PreviewTotalsRequest prices lines that are not saved anywhere
type PreviewTotalsRequest struct {
	Items         pricing.LineItems `json:"items"`
	MarginPercent *float64          `json:"margin_percent" binding:"omitempty,min=0"`
}

// QuoteStatusRequest moves a quote between open, accepted and declined
type QuoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open accepted declined"`
}

// ConvertQuoteRequest represents a quote to job conversion
type ConvertQuoteRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// CreateJobRequest represents a job creation request
type CreateJobRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	Title         string            `json:"title" binding:"required,max=255"`
	Items         pricing.LineItems `json:"items"`
	MarginPercent *float64          `json:"margin_percent" binding:"omitempty,min=0"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         *string           `json:"notes"`
}

// UpdateJobRequest represents a job update request
type UpdateJobRequest struct {
	CustomerID    *uuid.UUID         `json:"customer_id"`
	Title         *string            `json:"title" binding:"omitempty,min=1,max=255"`
	Items         *pricing.LineItems `json:"items"`
	MarginPercent *float64           `json:"margin_percent" binding:"omitempty,min=0"`
	DueDate       *time.Time         `json:"due_date"`
	Notes         *string            `json:"notes"`
}

// UpdateInvoiceRequest adjusts the figures of an unpaid invoice
type UpdateInvoiceRequest struct {
	TaxRatePercent     *float64   `json:"tax_rate_percent" binding:"omitempty,min=0,max=100"`
	DiscountType       *string    `json:"discount_type" binding:"omitempty,oneof=flat percent"`
	DiscountValue      *float64   `json:"discount_value" binding:"omitempty,min=0"`
	ApplyTaxToDiscount *bool      `json:"apply_tax_to_discount"`
	Deposit            *float64   `json:"deposit" binding:"omitempty,min=0"`
	DueDate            *time.Time `json:"due_date"`
	Notes              *string    `json:"notes"`
}

// MarkPaidRequest records how an invoice was paid
type MarkPaidRequest struct {
	Method    *string    `json:"method" binding:"omitempty,max=50"`
	Reference *string    `json:"reference" binding:"omitempty,max=255"`
	PaidAt    *time.Time `json:"paid_at"`
}

// EmailInvoiceRequest sends an invoice. An empty recipient falls back to the
// customer's email.
type EmailInvoiceRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}
