package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
)

// MaterialRepository defines the interface for material data operations
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Material, error)
	// GetByIDs loads the current reference prices for a set of materials in one query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Material, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MaterialFilterParams) ([]entity.Material, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Material, error)
	CountLowStock(ctx context.Context) (int64, error)
}

// MaterialFilterParams contains filtering parameters for material queries
type MaterialFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	VendorID   *uuid.UUID
	LowStock   bool
	SortBy     string
	SortOrder  string
}
