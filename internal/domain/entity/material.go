package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"gorm.io/gorm"
)

// Material is a stocked consumable (substrate, vinyl, blanks) priced per unit
type Material struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_materials_tenant_sku,priority:1" json:"tenant_id"`
	VendorID       *uuid.UUID     `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	SKU            string         `gorm:"size:100;not null;index:idx_materials_tenant_sku,priority:2" json:"sku"`
	Unit           string         `gorm:"size:30;not null" json:"unit"`
	PurchasePrice  float64        `gorm:"type:decimal(15,4);default:0" json:"purchase_price"`
	SellingPrice   float64        `gorm:"type:decimal(15,4);default:0" json:"selling_price"`
	QuantityOnHand float64        `gorm:"type:decimal(15,3);default:0" json:"quantity_on_hand"`
	ReorderLevel   float64        `gorm:"type:decimal(15,3);default:0" json:"reorder_level"`
	Notes          *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

// BeforeCreate generates a UUID before creating a new material
func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Material model
func (Material) TableName() string {
	return "materials"
}

// IsLowStock reports whether stock has fallen to the reorder level
func (m *Material) IsLowStock() bool {
	return m.ReorderLevel > 0 && m.QuantityOnHand <= m.ReorderLevel
}

// Price returns the material's current reference price for the pricing engine
func (m *Material) Price() pricing.MaterialPrice {
	return pricing.MaterialPrice{
		PurchasePrice: pricing.Number(m.PurchasePrice),
		SellingPrice:  pricing.Number(m.SellingPrice),
	}
}
