package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Billing event outcomes
const (
	BillingEventProcessed = "processed"
	BillingEventIgnored   = "ignored"
	BillingEventFailed    = "failed"
)

// BillingEvent records a received Stripe webhook event. EventID is unique so
// redelivered events are detected and skipped.
type BillingEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	EventID     string         `gorm:"size:255;not null;uniqueIndex" json:"event_id"`
	Type        string         `gorm:"size:100;not null;index" json:"type"`
	TenantID    *uuid.UUID     `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	Status      string         `gorm:"size:20;not null" json:"status"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Error       *string        `gorm:"type:text" json:"error,omitempty"`
	ProcessedAt time.Time      `json:"processed_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BeforeCreate generates a UUID before recording the event
func (b *BillingEvent) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillingEvent model
func (BillingEvent) TableName() string {
	return "billing_events"
}
