package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
)

// MaterialRequest is the body for creating or updating a material
type MaterialRequest struct {
	Name           *string    `json:"name" binding:"omitempty,max=255"`
	SKU            *string    `json:"sku" binding:"omitempty,max=100"`
	Unit           *string    `json:"unit" binding:"omitempty,max=50"`
	VendorID       *uuid.UUID `json:"vendor_id"`
	PurchasePrice  *float64   `json:"purchase_price" binding:"omitempty,min=0"`
	SellingPrice   *float64   `json:"selling_price" binding:"omitempty,min=0"`
	QuantityOnHand *float64   `json:"quantity_on_hand" binding:"omitempty,min=0"`
	ReorderLevel   *float64   `json:"reorder_level" binding:"omitempty,min=0"`
	Notes          *string    `json:"notes"`
}

// MaterialFilterRequest represents material list parameters
type MaterialFilterRequest struct {
	ListQuery
	VendorID string `form:"vendor_id" binding:"omitempty,uuid"`
	LowStock bool   `form:"low_stock"`
}

// EquipmentRequest is the body for creating or updating equipment
type EquipmentRequest struct {
	Name         *string         `json:"name" binding:"omitempty,max=255"`
	Category     *string         `json:"category" binding:"omitempty,max=100"`
	HourlyRate   *float64        `json:"hourly_rate" binding:"omitempty,min=0"`
	FlatFee      *float64        `json:"flat_fee" binding:"omitempty,min=0"`
	InkRates     *pricing.InkSet `json:"ink_rates"`
	UseSoftWhite *bool           `json:"use_soft_white"`
	Active       *bool           `json:"active"`
	Notes        *string         `json:"notes"`
}

// EquipmentFilterRequest represents equipment and add-on list parameters
type EquipmentFilterRequest struct {
	ListQuery
	Category   string `form:"category"`
	ActiveOnly bool   `form:"active_only"`
}

// AddOnRequest is the body for creating or updating an add-on
type AddOnRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unit_price" binding:"omitempty,min=0"`
	Active      *bool    `json:"active"`
}
