package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentKind identifies a numbered document series
type DocumentKind string

const (
	DocumentKindQuote         DocumentKind = "quote"
	DocumentKindJob           DocumentKind = "job"
	DocumentKindInvoice       DocumentKind = "invoice"
	DocumentKindPurchaseOrder DocumentKind = "purchase_order"
)

// DocumentSequence is the next number to hand out for a tenant's document series
type DocumentSequence struct {
	TenantID  uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Kind      DocumentKind `gorm:"size:30;primaryKey"`
	NextValue int64        `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for the DocumentSequence model
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// FormatDocumentNumber renders a sequence value as <prefix><5 digits>
func FormatDocumentNumber(prefix string, value int64) string {
	return fmt.Sprintf("%s%05d", prefix, value)
}
