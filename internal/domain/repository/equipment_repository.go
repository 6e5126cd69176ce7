package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
)

// EquipmentFilterParams contains filtering parameters for equipment and add-on queries
type EquipmentFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}

// EquipmentRepository defines the interface for equipment data operations
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *entity.Equipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Equipment, error)
	// GetByIDs loads the current rate tables for a set of equipment in one query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Equipment, error)
	Update(ctx context.Context, equipment *entity.Equipment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *EquipmentFilterParams) ([]entity.Equipment, int64, error)
}

// AddOnRepository defines the interface for add-on data operations
type AddOnRepository interface {
	Create(ctx context.Context, addOn *entity.AddOn) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AddOn, error)
	Update(ctx context.Context, addOn *entity.AddOn) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *EquipmentFilterParams) ([]entity.AddOn, int64, error)
}
