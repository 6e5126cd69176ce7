package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
)

// ErrStaleState is returned when a conditional state transition matched no row,
// typically because another request moved the document first.
var ErrStaleState = errors.New("document state changed concurrently")

// SequenceRepository hands out per-tenant document numbers
type SequenceRepository interface {
	// Next returns the next value of the tenant's series, starting at 1.
	// Concurrent callers never receive the same value.
	Next(ctx context.Context, tenantID uuid.UUID, kind entity.DocumentKind) (int64, error)
}

// QuoteRepository defines the interface for quote data operations
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quote, error)
	Update(ctx context.Context, quote *entity.Quote) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *QuoteFilterParams) ([]entity.Quote, int64, error)
	CountByStatus(ctx context.Context, status enum.QuoteStatus) (int64, error)
	// ConvertToJob creates the job and marks the quote converted in one transaction.
	// Returns ErrStaleState if the quote is no longer convertible.
	ConvertToJob(ctx context.Context, quote *entity.Quote, job *entity.Job) error
}

// QuoteFilterParams contains filtering parameters for quote queries
type QuoteFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuoteStatus
	CustomerID *uuid.UUID
	SortBy     string
	SortOrder  string
}

// JobRepository defines the interface for job data operations
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *JobFilterParams) ([]entity.Job, int64, error)
	// ListAll returns every job matching the filters without pagination (exports)
	ListAll(ctx context.Context, params *JobFilterParams) ([]entity.Job, error)
	CountByStatus(ctx context.Context, status enum.JobStatus) (int64, error)
	// TransitionStatus moves a job from one status to another only if it is still in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enum.JobStatus, completedAt *time.Time) error
}

// JobFilterParams contains filtering parameters for job queries
type JobFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.JobStatus
	CustomerID *uuid.UUID
	SortBy     string
	SortOrder  string
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete removes an unpaid invoice and reopens its job as completed.
	// Returns ErrStaleState if the invoice is no longer unpaid.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// ListAll returns every invoice matching the filters without pagination (exports)
	ListAll(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, error)
	// CreateFromJob stores the invoice and moves the job from completed to invoiced
	// in one transaction. Returns ErrStaleState if the job was already invoiced.
	CreateFromJob(ctx context.Context, invoice *entity.Invoice) error
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Overdue    bool
	Now        time.Time
	SortBy     string
	SortOrder  string
}
