package request

import "github.com/google/uuid"

// PurchaseOrderItemRequest is one material line of a purchase order
type PurchaseOrderItemRequest struct {
	MaterialID  uuid.UUID `json:"material_id" binding:"required"`
	Description string    `json:"description" binding:"max=255"`
	Quantity    float64   `json:"quantity" binding:"gt=0"`
	UnitCost    float64   `json:"unit_cost" binding:"min=0"`
}

// CreatePurchaseOrderRequest represents a purchase order creation request
type CreatePurchaseOrderRequest struct {
	VendorID       uuid.UUID                  `json:"vendor_id" binding:"required"`
	TaxRatePercent float64                    `json:"tax_rate_percent" binding:"min=0,max=100"`
	Notes          *string                    `json:"notes"`
	Items          []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest edits a draft purchase order. Items, when
// present, replace every line.
type UpdatePurchaseOrderRequest struct {
	VendorID       *uuid.UUID                 `json:"vendor_id"`
	TaxRatePercent *float64                   `json:"tax_rate_percent" binding:"omitempty,min=0,max=100"`
	Notes          *string                    `json:"notes"`
	Items          []PurchaseOrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// PurchaseOrderFilterRequest represents purchase order list parameters
type PurchaseOrderFilterRequest struct {
	ListQuery
	Status   string `form:"status"`
	VendorID string `form:"vendor_id" binding:"omitempty,uuid"`
}

// ReceivePurchaseOrderRequest receives an ordered purchase order into stock
type ReceivePurchaseOrderRequest struct {
	UpdatePrices bool `json:"update_prices"`
}
