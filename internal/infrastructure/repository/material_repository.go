package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"gorm.io/gorm"
)

const lowStockCondition = "reorder_level > 0 AND quantity_on_hand <= reorder_level"

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *gorm.DB) domainRepo.MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Vendor").
		First(&material, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &material, err
}

// GetByIDs retrieves multiple materials by their IDs in a single query
func (r *materialRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Material, error) {
	if len(ids) == 0 {
		return []entity.Material{}, nil
	}
	var materials []entity.Material
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("id IN ?", ids).
		Find(&materials).Error
	return materials, err
}

func (r *materialRepository) GetBySKU(ctx context.Context, sku string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&material, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &material, err
}

func (r *materialRepository) Update(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Omit("Vendor").Save(material).Error
}

func (r *materialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Material{}, "id = ?", id).Error
}

func (r *materialRepository) List(ctx context.Context, params *domainRepo.MaterialFilterParams) ([]entity.Material, int64, error) {
	var materials []entity.Material
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Material{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "name", "sku"))

	if params.VendorID != nil {
		query = query.Where("vendor_id = ?", *params.VendorID)
	}

	if params.LowStock {
		query = query.Where(lowStockCondition)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Vendor").
		Scopes(SortScope(params.SortBy, params.SortOrder, "created_at",
			"name", "sku", "quantity_on_hand", "selling_price", "created_at")).
		Find(&materials).Error

	return materials, total, err
}

func (r *materialRepository) GetLowStock(ctx context.Context) ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where(lowStockCondition).
		Order("name ASC").
		Find(&materials).Error
	return materials, err
}

func (r *materialRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Material{}).Scopes(TenantScope(ctx)).
		Where(lowStockCondition).
		Count(&count).Error
	return count, err
}
