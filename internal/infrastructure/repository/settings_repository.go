package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shopSettingsRepository struct {
	db *gorm.DB
}

// NewShopSettingsRepository creates a new shop settings repository
func NewShopSettingsRepository(db *gorm.DB) repository.ShopSettingsRepository {
	return &shopSettingsRepository{db: db}
}

// GetByTenantID retrieves settings by tenant ID
func (r *shopSettingsRepository) GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*entity.ShopSettings, error) {
	var settings entity.ShopSettings
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create inserts default settings; a concurrent insert for the same tenant is ignored
func (r *shopSettingsRepository) Create(ctx context.Context, settings *entity.ShopSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tenant_id"}}, DoNothing: true}).
		Create(settings).Error
}

// Update updates existing settings
func (r *shopSettingsRepository) Update(ctx context.Context, settings *entity.ShopSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
