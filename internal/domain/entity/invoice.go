package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice is an immutable snapshot of a completed job plus invoice-only
// adjustments. Items and Snapshot never change after generation; the payable
// figures are recomputed from Snapshot whenever the adjustments change.
type Invoice struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_tenant_number,priority:1" json:"tenant_id"`
	CreatedByID uuid.UUID          `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	CustomerID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	JobID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"job_id"`
	Number      string             `gorm:"size:50;not null;uniqueIndex:idx_invoices_tenant_number,priority:2" json:"number"`
	Status      enum.InvoiceStatus `gorm:"default:0;index" json:"status"`

	Items    datatypes.JSONType[pricing.LineItems]      `gorm:"type:jsonb" json:"items"`
	Snapshot datatypes.JSONType[pricing.DocumentTotals] `gorm:"type:jsonb" json:"snapshot"`

	// Adjustments
	TaxRatePercent      float64              `gorm:"type:decimal(7,3);default:0" json:"tax_rate_percent"`
	DiscountType        pricing.DiscountType `gorm:"size:20;default:'flat'" json:"discount_type"`
	DiscountValue       float64              `gorm:"type:decimal(15,2);default:0" json:"discount_value"`
	TaxOnDiscountedBase bool                 `gorm:"column:apply_tax_to_discount;not null" json:"apply_tax_to_discount"`
	Deposit             float64              `gorm:"type:decimal(15,2);default:0" json:"deposit"`

	// Derived figures
	PreTax   float64 `gorm:"type:decimal(15,2);default:0" json:"pre_tax"`
	Discount float64 `gorm:"type:decimal(15,2);default:0" json:"discount"`
	Taxable  float64 `gorm:"type:decimal(15,2);default:0" json:"taxable"`
	Tax      float64 `gorm:"type:decimal(15,2);default:0" json:"tax"`
	Total    float64 `gorm:"type:decimal(15,2);default:0" json:"total"`
	TotalDue float64 `gorm:"type:decimal(15,2);default:0" json:"total_due"`

	IssuedAt         time.Time      `gorm:"not null;index" json:"issued_at"`
	DueDate          *time.Time     `gorm:"index" json:"due_date,omitempty"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	PaymentMethod    *string        `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentReference *string        `gorm:"size:255" json:"payment_reference,omitempty"`
	Notes            *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Job      *Job      `gorm:"foreignKey:JobID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Input builds the engine input from the frozen snapshot and current adjustments
func (i *Invoice) Input() pricing.InvoiceInput {
	return pricing.InvoiceInput{
		PreTax:              pricing.Number(i.Snapshot.Data().TotalChargePreTax),
		TaxRatePercent:      pricing.Number(i.TaxRatePercent),
		DiscountType:        i.DiscountType,
		DiscountValue:       pricing.Number(i.DiscountValue),
		TaxOnDiscountedBase: i.TaxOnDiscountedBase,
		Deposit:             pricing.Number(i.Deposit),
	}
}

// Recompute refreshes the derived figures from the snapshot and adjustments
func (i *Invoice) Recompute() pricing.InvoiceTotals {
	t := pricing.ComputeInvoiceTotals(i.Input())
	i.PreTax = t.PreTax
	i.Discount = t.Discount
	i.Taxable = t.Taxable
	i.Tax = t.Tax
	i.Total = t.Total
	i.TotalDue = t.TotalDue
	return t
}

// IsOverdue reports whether an unpaid invoice is past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == enum.InvoiceStatusUnpaid && i.DueDate != nil && now.After(*i.DueDate)
}
