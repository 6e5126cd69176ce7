package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"gorm.io/gorm"
)

type equipmentRepository struct {
	db *gorm.DB
}

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *gorm.DB) domainRepo.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) Create(ctx context.Context, equipment *entity.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

func (r *equipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Equipment, error) {
	var equipment entity.Equipment
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&equipment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &equipment, err
}

// GetByIDs retrieves multiple equipment rows by their IDs in a single query
func (r *equipmentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Equipment, error) {
	if len(ids) == 0 {
		return []entity.Equipment{}, nil
	}
	var equipment []entity.Equipment
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("id IN ?", ids).
		Find(&equipment).Error
	return equipment, err
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *entity.Equipment) error {
	return r.db.WithContext(ctx).Save(equipment).Error
}

func (r *equipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Equipment{}, "id = ?", id).Error
}

func (r *equipmentRepository) List(ctx context.Context, params *domainRepo.EquipmentFilterParams) ([]entity.Equipment, int64, error) {
	var equipment []entity.Equipment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Equipment{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "name", "category"))

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Scopes(SortScope(params.SortBy, params.SortOrder, "created_at", "name", "category", "created_at")).
		Find(&equipment).Error

	return equipment, total, err
}

type addOnRepository struct {
	db *gorm.DB
}

// NewAddOnRepository creates a new add-on repository
func NewAddOnRepository(db *gorm.DB) domainRepo.AddOnRepository {
	return &addOnRepository{db: db}
}

func (r *addOnRepository) Create(ctx context.Context, addOn *entity.AddOn) error {
	return r.db.WithContext(ctx).Create(addOn).Error
}

func (r *addOnRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AddOn, error) {
	var addOn entity.AddOn
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&addOn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &addOn, err
}

func (r *addOnRepository) Update(ctx context.Context, addOn *entity.AddOn) error {
	return r.db.WithContext(ctx).Save(addOn).Error
}

func (r *addOnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.AddOn{}, "id = ?", id).Error
}

func (r *addOnRepository) List(ctx context.Context, params *domainRepo.EquipmentFilterParams) ([]entity.AddOn, int64, error) {
	var addOns []entity.AddOn
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AddOn{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "name"))

	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Scopes(SortScope(params.SortBy, params.SortOrder, "created_at", "name", "unit_price", "created_at")).
		Find(&addOns).Error

	return addOns, total, err
}
