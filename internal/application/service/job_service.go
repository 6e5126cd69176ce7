package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/export"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"github.com/sangkips/shopfloor-api/pkg/telemetry"
	"gorm.io/datatypes"
)

// JobService handles job business logic
type JobService struct {
	jobRepo      repository.JobRepository
	customerRepo repository.CustomerRepository
	pricer       *Pricer
	numberer     *DocumentNumberer
	settings     *SettingsService
	notifier     Notifier
	metrics      *telemetry.Metrics
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo repository.JobRepository,
	customerRepo repository.CustomerRepository,
	pricer *Pricer,
	numberer *DocumentNumberer,
	settings *SettingsService,
	notifier Notifier,
	metrics *telemetry.Metrics,
) *JobService {
	return &JobService{
		jobRepo:      jobRepo,
		customerRepo: customerRepo,
		pricer:       pricer,
		numberer:     numberer,
		settings:     settings,
		notifier:     notifier,
		metrics:      metrics,
	}
}

// CreateJobInput represents the create job input
type CreateJobInput struct {
	CreatedByID   uuid.UUID
	CustomerID    uuid.UUID
	Title         string
	Items         pricing.LineItems
	MarginPercent *float64
	DueDate       *time.Time
	Notes         *string
}

// CreateJob prices and stores a new active job
func (s *JobService) CreateJob(ctx context.Context, input *CreateJobInput) (*entity.Job, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "title", Message: "is required"}})
	}
	if err := requireCustomer(ctx, s.customerRepo, input.CustomerID); err != nil {
		return nil, err
	}

	margin := 0.0
	if input.MarginPercent != nil {
		margin = *input.MarginPercent
	} else {
		settings, err := s.settings.ForTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		margin = settings.DefaultMarginPercent
	}

	items, totals, err := s.pricer.Price(ctx, input.Items, margin)
	if err != nil {
		return nil, err
	}

	number, err := s.numberer.Next(ctx, tenantID, entity.DocumentKindJob)
	if err != nil {
		return nil, err
	}

	job := &entity.Job{
		TenantID:    tenantID,
		CreatedByID: input.CreatedByID,
		CustomerID:  input.CustomerID,
		Number:      number,
		Title:       strings.TrimSpace(input.Title),
		Status:      enum.JobStatusActive,
		DueDate:     input.DueDate,
		Notes:       input.Notes,
	}
	job.Items = datatypes.NewJSONType(items)
	job.MarginPercent = margin
	job.ApplyTotals(totals)

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	s.metrics.DocumentCreated(string(entity.DocumentKindJob))
	return job, nil
}

// GetJob retrieves a job by ID. Active jobs are priced against current
// reference data without saving.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.livePrice(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) find(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}
	return job, nil
}

// livePrice refreshes an active job in memory; completed, invoiced and
// cancelled jobs keep their frozen totals
func (s *JobService) livePrice(ctx context.Context, job *entity.Job) error {
	if !job.IsActive() {
		return nil
	}
	return s.reprice(ctx, job, job.Items.Data())
}

// ListJobs lists jobs for the current tenant
func (s *JobService) ListJobs(ctx context.Context, params *repository.JobFilterParams) (*pagination.PaginatedResult[entity.Job], error) {
	jobs, total, err := s.jobRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if err := s.livePrice(ctx, &jobs[i]); err != nil {
			return nil, err
		}
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(jobs, pag), nil
}

// UpdateJobInput represents the update job input
type UpdateJobInput struct {
	ID            uuid.UUID
	CustomerID    *uuid.UUID
	Title         *string
	Items         *pricing.LineItems
	MarginPercent *float64
	DueDate       *time.Time
	Notes         *string
}

// UpdateJob edits an active job and re-prices it
func (s *JobService) UpdateJob(ctx context.Context, input *UpdateJobInput) (*entity.Job, error) {
	job, err := s.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive() {
		return nil, apperror.NewUnprocessableError("Only active jobs can be edited")
	}

	if input.CustomerID != nil && *input.CustomerID != job.CustomerID {
		if err := requireCustomer(ctx, s.customerRepo, *input.CustomerID); err != nil {
			return nil, err
		}
		job.CustomerID = *input.CustomerID
		job.Customer = nil
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "title", Message: "is required"}})
		}
		job.Title = strings.TrimSpace(*input.Title)
	}
	if input.DueDate != nil {
		job.DueDate = input.DueDate
	}
	if input.Notes != nil {
		job.Notes = input.Notes
	}
	if input.MarginPercent != nil {
		job.MarginPercent = *input.MarginPercent
	}

	items := job.Items.Data()
	if input.Items != nil {
		items = *input.Items
	}
	if err := s.reprice(ctx, job, items); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) reprice(ctx context.Context, job *entity.Job, items pricing.LineItems) error {
	priced, totals, err := s.pricer.Price(ctx, items, job.MarginPercent)
	if err != nil {
		return err
	}
	job.Items = datatypes.NewJSONType(priced)
	job.ApplyTotals(totals)
	return nil
}

// RecalculateJob re-prices an active job against current reference prices
func (s *JobService) RecalculateJob(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsActive() {
		return nil, apperror.NewUnprocessableError("Only active jobs can be re-priced")
	}
	if err := s.reprice(ctx, job, job.Items.Data()); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// CompleteJob takes a final price of an active job and marks it completed
func (s *JobService) CompleteJob(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsActive() {
		return nil, apperror.NewUnprocessableError("Only active jobs can be completed")
	}

	if err := s.reprice(ctx, job, job.Items.Data()); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.jobRepo.TransitionStatus(ctx, job.ID, enum.JobStatusActive, enum.JobStatusCompleted, &now); err != nil {
		return nil, staleAsConflict(err, "Job changed state concurrently")
	}
	job.Status = enum.JobStatusCompleted
	job.CompletedAt = &now

	s.notifier.Notify(ctx, &entity.Notification{
		TenantID:   job.TenantID,
		Type:       entity.NotificationJobCompleted,
		Title:      "Job " + job.Number + " completed",
		Body:       job.Title + " is ready to invoice.",
		EntityType: "job",
		EntityID:   &job.ID,
	})
	return job, nil
}

// CancelJob cancels an active job
func (s *JobService) CancelJob(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsActive() {
		return nil, apperror.NewUnprocessableError("Only active jobs can be cancelled")
	}
	if err := s.jobRepo.TransitionStatus(ctx, job.ID, enum.JobStatusActive, enum.JobStatusCancelled, nil); err != nil {
		return nil, staleAsConflict(err, "Job changed state concurrently")
	}
	job.Status = enum.JobStatusCancelled
	return job, nil
}

// DeleteJob deletes a job that has not been invoiced
func (s *JobService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	job, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == enum.JobStatusInvoiced || job.InvoiceID != nil {
		return apperror.NewUnprocessableError("Invoiced jobs cannot be deleted")
	}
	return s.jobRepo.Delete(ctx, id)
}

var jobColumns = []export.Column{
	{Header: "Number", Width: 14},
	{Header: "Title", Width: 32},
	{Header: "Customer", Width: 28},
	{Header: "Status", Width: 12},
	{Header: "Due", Width: 12},
	{Header: "Ink charge", Width: 14, Money: true},
	{Header: "Materials", Width: 14, Money: true},
	{Header: "Equipment", Width: 14, Money: true},
	{Header: "Labor", Width: 14, Money: true},
	{Header: "Add-ons", Width: 14, Money: true},
	{Header: "Total (pre-tax)", Width: 16, Money: true},
	{Header: "Cost", Width: 14, Money: true},
	{Header: "Profit", Width: 14, Money: true},
}

// ExportJobs writes the filtered job list as an XLSX workbook
func (s *JobService) ExportJobs(ctx context.Context, params *repository.JobFilterParams) ([]byte, error) {
	jobs, err := s.jobRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		if err := s.livePrice(ctx, j); err != nil {
			return nil, err
		}
		t := j.Totals.Data()
		customer := ""
		if j.Customer != nil {
			customer = j.Customer.DisplayName()
		}
		rows = append(rows, []any{
			j.Number, j.Title, customer, j.Status.String(), formatDate(j.DueDate),
			t.InkCharge, t.MatCharge, t.EqCharge, t.LaborCharge, t.AddonCharge,
			t.TotalChargePreTax, t.TotalCost, t.Profit,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.Sheet{Name: "Jobs", Columns: jobColumns, Rows: rows}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
