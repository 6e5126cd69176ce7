package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Equipment is a machine whose use is billed on quotes and jobs.
// UV and sublimation printers are billed by ink consumption using InkRates;
// everything else is billed hourly or by a flat fee.
type Equipment struct {
	ID           uuid.UUID                          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID                          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name         string                             `gorm:"size:255;not null" json:"name"`
	Category     string                             `gorm:"size:100;not null;index" json:"category"`
	HourlyRate   float64                            `gorm:"type:decimal(15,2);default:0" json:"hourly_rate"`
	FlatFee      float64                            `gorm:"type:decimal(15,2);default:0" json:"flat_fee"`
	InkRates     datatypes.JSONType[pricing.InkSet] `gorm:"type:jsonb" json:"ink_rates"`
	UseSoftWhite bool                               `gorm:"not null" json:"use_soft_white"`
	Active       bool                               `gorm:"not null" json:"active"`
	Notes        *string                            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time                          `json:"created_at"`
	UpdatedAt    time.Time                          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt                     `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating new equipment
func (e *Equipment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Equipment model
func (Equipment) TableName() string {
	return "equipment"
}

// UsesInk reports whether this equipment is priced by ink consumption
func (e *Equipment) UsesInk() bool {
	return pricing.IsInkCategory(e.Category)
}

// RateTable returns the pricing view of this equipment
func (e *Equipment) RateTable() pricing.RateTable {
	return pricing.RateTable{
		Category:     e.Category,
		Rates:        e.InkRates.Data(),
		UseSoftWhite: e.UseSoftWhite,
	}
}

// AddOn is an extra sold alongside a document (rush fee, mounting, packaging)
type AddOn struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	UnitPrice   float64        `gorm:"type:decimal(15,2);default:0" json:"unit_price"`
	Active      bool           `gorm:"not null" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new add-on
func (a *AddOn) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AddOn model
func (AddOn) TableName() string {
	return "addons"
}
