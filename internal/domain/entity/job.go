package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Job is work in progress for a customer. It is priced like a quote while
// active and is frozen into an invoice once completed.
type Job struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_jobs_tenant_number,priority:1" json:"tenant_id"`
	CreatedByID uuid.UUID      `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	CustomerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	QuoteID     *uuid.UUID     `gorm:"type:uuid;index" json:"quote_id,omitempty"`
	Number      string         `gorm:"size:50;not null;uniqueIndex:idx_jobs_tenant_number,priority:2" json:"number"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Status      enum.JobStatus `gorm:"default:0;index" json:"status"`
	DocumentPricing
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	InvoiceID   *uuid.UUID     `gorm:"type:uuid" json:"invoice_id,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// BeforeCreate generates a UUID before creating a new job
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

// IsActive reports whether the job can still be edited and re-priced
func (j *Job) IsActive() bool {
	return j.Status == enum.JobStatusActive
}
