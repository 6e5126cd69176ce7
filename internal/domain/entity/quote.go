package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentPricing is the authored content and derived totals shared by quotes and jobs.
// Totals are recomputed from live reference prices whenever the document changes.
type DocumentPricing struct {
	Items         datatypes.JSONType[pricing.LineItems]      `gorm:"type:jsonb" json:"items"`
	MarginPercent float64                                    `gorm:"type:decimal(7,2);default:0" json:"margin_percent"`
	Totals        datatypes.JSONType[pricing.DocumentTotals] `gorm:"type:jsonb" json:"totals"`
	TotalCharge   float64                                    `gorm:"type:decimal(15,2);default:0;index" json:"total_charge"`
}

// ApplyTotals stores freshly computed totals on the document
func (d *DocumentPricing) ApplyTotals(t pricing.DocumentTotals) {
	d.Totals = datatypes.NewJSONType(t)
	d.TotalCharge = t.TotalChargePreTax
}

// Quote is a priced proposal sent to a customer
type Quote struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_quotes_tenant_number,priority:1" json:"tenant_id"`
	CreatedByID uuid.UUID        `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	Number      string           `gorm:"size:50;not null;uniqueIndex:idx_quotes_tenant_number,priority:2" json:"number"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Status      enum.QuoteStatus `gorm:"default:0;index" json:"status"`
	DocumentPricing
	ValidUntil *time.Time     `json:"valid_until,omitempty"`
	Notes      *string        `gorm:"type:text" json:"notes,omitempty"`
	JobID      *uuid.UUID     `gorm:"type:uuid" json:"job_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quote
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// IsEditable reports whether the quote can still be changed
func (q *Quote) IsEditable() bool {
	return q.Status == enum.QuoteStatusOpen || q.Status == enum.QuoteStatusAccepted
}

// CanConvert reports whether the quote may become a job
func (q *Quote) CanConvert() bool {
	return q.IsEditable() && q.JobID == nil
}
