package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"gorm.io/gorm"
)

// PurchaseOrder restocks materials from a vendor
type PurchaseOrder struct {
	ID             uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID                `gorm:"type:uuid;not null;index;uniqueIndex:idx_purchase_orders_tenant_number,priority:1" json:"tenant_id"`
	CreatedByID    uuid.UUID                `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	VendorID       uuid.UUID                `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Number         string                   `gorm:"size:50;not null;uniqueIndex:idx_purchase_orders_tenant_number,priority:2" json:"number"`
	Status         enum.PurchaseOrderStatus `gorm:"default:0;index" json:"status"`
	TaxRatePercent float64                  `gorm:"type:decimal(7,3);default:0" json:"tax_rate_percent"`
	Subtotal       float64                  `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	Tax            float64                  `gorm:"type:decimal(15,2);default:0" json:"tax"`
	Total          float64                  `gorm:"type:decimal(15,2);default:0" json:"total"`
	OrderedAt      *time.Time               `json:"ordered_at,omitempty"`
	ReceivedAt     *time.Time               `json:"received_at,omitempty"`
	Notes          *string                  `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	DeletedAt      gorm.DeletedAt           `gorm:"index" json:"-"`

	// Relationships
	Vendor *Vendor             `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Items  []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new purchase order
func (p *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrder model
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// RecalculateTotals derives line totals, subtotal, tax and total, all to 2 dp
func (p *PurchaseOrder) RecalculateTotals() {
	var subtotal float64
	for i := range p.Items {
		p.Items[i].LineTotal = pricing.Round2(p.Items[i].Quantity * p.Items[i].UnitCost)
		subtotal += p.Items[i].LineTotal
	}
	p.Subtotal = pricing.Round2(subtotal)
	p.Tax = pricing.Round2(p.Subtotal * p.TaxRatePercent / 100)
	p.Total = pricing.Round2(p.Subtotal + p.Tax)
}

// PurchaseOrderItem is one material line on a purchase order
type PurchaseOrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	MaterialID      uuid.UUID `gorm:"type:uuid;not null;index" json:"material_id"`
	Description     string    `gorm:"size:255" json:"description"`
	Quantity        float64   `gorm:"type:decimal(15,3);not null" json:"quantity"`
	UnitCost        float64   `gorm:"type:decimal(15,4);not null" json:"unit_cost"`
	LineTotal       float64   `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase order item
func (pi *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrderItem model
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
