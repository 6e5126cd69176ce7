package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor supplies materials and is the counterparty of purchase orders
type Vendor struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedByID   uuid.UUID      `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	ContactName   *string        `gorm:"size:255" json:"contact_name,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	Website       *string        `gorm:"size:255" json:"website,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	AccountNumber *string        `gorm:"size:100" json:"account_number,omitempty"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Materials      []Material      `gorm:"foreignKey:VendorID" json:"-"`
	PurchaseOrders []PurchaseOrder `gorm:"foreignKey:VendorID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new vendor
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Vendor model
func (Vendor) TableName() string {
	return "vendors"
}
