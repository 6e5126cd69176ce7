package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
)

// ShopSettingsRepository defines the interface for shop settings data access
type ShopSettingsRepository interface {
	GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*entity.ShopSettings, error)
	// Create inserts the settings unless the tenant already has a row
	Create(ctx context.Context, settings *entity.ShopSettings) error
	Update(ctx context.Context, settings *entity.ShopSettings) error
}
