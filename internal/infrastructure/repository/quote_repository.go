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

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) domainRepo.QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(quote).Error
}

func (r *quoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Customer").
		First(&quote, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) Update(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Omit("Customer").Save(quote).Error
}

func (r *quoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Quote{}, "id = ?", id).Error
}

func (r *quoteRepository) List(ctx context.Context, params *domainRepo.QuoteFilterParams) ([]entity.Quote, int64, error) {
	var quotes []entity.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quote{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "number", "title"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Scopes(SortScope(params.SortBy, params.SortOrder, "created_at", "number", "total_charge", "created_at")).
		Find(&quotes).Error

	return quotes, total, err
}

func (r *quoteRepository) CountByStatus(ctx context.Context, status enum.QuoteStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Quote{}).Scopes(TenantScope(ctx)).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *quoteRepository) ConvertToJob(ctx context.Context, quote *entity.Quote, job *entity.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Customer").Create(job).Error; err != nil {
			return err
		}

		result := tx.Model(&entity.Quote{}).
			Where("id = ? AND tenant_id = ? AND job_id IS NULL AND status IN ?", quote.ID, quote.TenantID,
				[]enum.QuoteStatus{enum.QuoteStatusOpen, enum.QuoteStatusAccepted}).
			Updates(map[string]interface{}{
				"status": enum.QuoteStatusConverted,
				"job_id": job.ID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrStaleState
		}

		quote.Status = enum.QuoteStatusConverted
		quote.JobID = &job.ID
		return nil
	})
}
