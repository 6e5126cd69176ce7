package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a client of the shop that quotes, jobs and invoices are issued to
type Customer struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedByID uuid.UUID      `gorm:"type:uuid;not null;index;column:created_by" json:"created_by"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Company     *string        `gorm:"size:255" json:"company,omitempty"`
	Email       *string        `gorm:"size:255;index" json:"email,omitempty"`
	Phone       *string        `gorm:"size:50" json:"phone,omitempty"`
	TaxID       *string        `gorm:"size:50" json:"tax_id,omitempty"`
	Address     *string        `gorm:"type:text" json:"address,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant  `gorm:"foreignKey:TenantID" json:"-"`
	Quotes []Quote `gorm:"foreignKey:CustomerID" json:"-"`
	Jobs   []Job   `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// DisplayName prefers the company name when one is set
func (c *Customer) DisplayName() string {
	if c.Company != nil && *c.Company != "" {
		return *c.Company
	}
	return c.Name
}
