package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Customer").
		Preload("Job").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&invoice, "job_id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit("Customer", "Job").Save(invoice).Error
}

// Delete removes an unpaid invoice and returns its job to completed so it can be invoiced again
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice entity.Invoice
		err := tx.Scopes(TenantScope(ctx)).
			Where("id = ? AND status = ?", id, enum.InvoiceStatusUnpaid).
			First(&invoice).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainRepo.ErrStaleState
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&invoice).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Job{}).
			Where("id = ? AND invoice_id = ?", invoice.JobID, invoice.ID).
			Updates(map[string]interface{}{
				"status":     enum.JobStatusCompleted,
				"invoice_id": nil,
			}).Error
	})
}

func (r *invoiceRepository) filtered(ctx context.Context, params *domainRepo.InvoiceFilterParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "number"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("issued_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("issued_at <= ?", *params.EndDate)
	}

	if params.Overdue {
		query = query.Where("status = ? AND due_date IS NOT NULL AND due_date < ?",
			enum.InvoiceStatusUnpaid, params.Now)
	}

	return query
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.filtered(ctx, params)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Scopes(SortScope(params.SortBy, params.SortOrder, "issued_at",
			"number", "total", "total_due", "due_date", "issued_at")).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListAll(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.filtered(ctx, params).
		Preload("Customer").
		Order("issued_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) CreateFromJob(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Job{}).
			Where("id = ? AND tenant_id = ? AND status = ? AND invoice_id IS NULL",
				invoice.JobID, invoice.TenantID, enum.JobStatusCompleted).
			Update("status", enum.JobStatusInvoiced)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrStaleState
		}

		if err := tx.Omit("Customer", "Job").Create(invoice).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Job{}).
			Where("id = ?", invoice.JobID).
			Update("invoice_id", invoice.ID).Error
	})
}
