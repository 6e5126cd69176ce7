package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"gorm.io/gorm"
)

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) domainRepo.JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var job entity.Job
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Customer").
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &job, err
}

func (r *jobRepository) Update(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Omit("Customer").Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Job{}, "id = ?", id).Error
}

func (r *jobRepository) filtered(ctx context.Context, params *domainRepo.JobFilterParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Job{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "number", "title"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	return query
}

func (r *jobRepository) List(ctx context.Context, params *domainRepo.JobFilterParams) ([]entity.Job, int64, error) {
	var jobs []entity.Job
	var total int64

	query := r.filtered(ctx, params)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Scopes(SortScope(params.SortBy, params.SortOrder, "created_at",
			"number", "total_charge", "due_date", "created_at")).
		Find(&jobs).Error

	return jobs, total, err
}

func (r *jobRepository) ListAll(ctx context.Context, params *domainRepo.JobFilterParams) ([]entity.Job, error) {
	var jobs []entity.Job
	err := r.filtered(ctx, params).
		Preload("Customer").
		Order("created_at ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) CountByStatus(ctx context.Context, status enum.JobStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Job{}).Scopes(TenantScope(ctx)).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *jobRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enum.JobStatus, completedAt *time.Time) error {
	updates := map[string]interface{}{"status": to}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	result := r.db.WithContext(ctx).Model(&entity.Job{}).Scopes(TenantScope(ctx)).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrStaleState
	}
	return nil
}
