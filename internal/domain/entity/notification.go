package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationJobCompleted       = "job.completed"
	NotificationInvoiceIssued      = "invoice.issued"
	NotificationInvoicePaid        = "invoice.paid"
	NotificationLowStock           = "material.low_stock"
	NotificationSubscriptionChange = "billing.subscription_changed"
)

// Notification is an in-app message for a tenant, optionally addressed to one user
type Notification struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID     *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type       string            `gorm:"size:100;not null;index" json:"type"`
	Title      string            `gorm:"size:255;not null" json:"title"`
	Body       string            `gorm:"type:text" json:"body"`
	EntityType string            `gorm:"size:50" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID        `gorm:"type:uuid" json:"entity_id,omitempty"`
	Data       datatypes.JSONMap `gorm:"type:jsonb" json:"data,omitempty"`
	ReadAt     *time.Time        `gorm:"index" json:"read_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
