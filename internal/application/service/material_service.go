package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"github.com/sangkips/shopfloor-api/pkg/utils"
)

// MaterialService handles stocked material operations
type MaterialService struct {
	materialRepo repository.MaterialRepository
	vendorRepo   repository.VendorRepository
}

// NewMaterialService creates a new material service
func NewMaterialService(materialRepo repository.MaterialRepository, vendorRepo repository.VendorRepository) *MaterialService {
	return &MaterialService{materialRepo: materialRepo, vendorRepo: vendorRepo}
}

// MaterialInput carries material fields. On update nil fields are left unchanged.
type MaterialInput struct {
	Name           *string
	SKU            *string
	Unit           *string
	VendorID       *uuid.UUID
	PurchasePrice  *float64
	SellingPrice   *float64
	QuantityOnHand *float64
	ReorderLevel   *float64
	Notes          *string
}

func (in *MaterialInput) validate(create bool) error {
	var errs []apperror.FieldError
	if create || in.Name != nil {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
		}
	}
	if create || in.Unit != nil {
		if in.Unit == nil || strings.TrimSpace(*in.Unit) == "" {
			errs = append(errs, apperror.FieldError{Field: "unit", Message: "is required"})
		}
	}
	for field, v := range map[string]*float64{
		"purchase_price":   in.PurchasePrice,
		"selling_price":    in.SellingPrice,
		"quantity_on_hand": in.QuantityOnHand,
		"reorder_level":    in.ReorderLevel,
	} {
		if v != nil && *v < 0 {
			errs = append(errs, apperror.FieldError{Field: field, Message: "must not be negative"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// CreateMaterial creates a material, deriving the SKU from the name when none is given
func (s *MaterialService) CreateMaterial(ctx context.Context, input *MaterialInput) (*entity.Material, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(true); err != nil {
		return nil, err
	}
	if err := s.checkVendor(ctx, input.VendorID); err != nil {
		return nil, err
	}

	sku, err := s.resolveSKU(ctx, input.SKU, *input.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	material := &entity.Material{
		TenantID: tenantID,
		VendorID: input.VendorID,
		Name:     strings.TrimSpace(*input.Name),
		SKU:      sku,
		Unit:     strings.TrimSpace(*input.Unit),
		Notes:    input.Notes,
	}
	applyMaterialNumbers(material, input)

	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func applyMaterialNumbers(m *entity.Material, input *MaterialInput) {
	if input.PurchasePrice != nil {
		m.PurchasePrice = *input.PurchasePrice
	}
	if input.SellingPrice != nil {
		m.SellingPrice = *input.SellingPrice
	}
	if input.QuantityOnHand != nil {
		m.QuantityOnHand = *input.QuantityOnHand
	}
	if input.ReorderLevel != nil {
		m.ReorderLevel = *input.ReorderLevel
	}
}

func (s *MaterialService) checkVendor(ctx context.Context, vendorID *uuid.UUID) error {
	if vendorID == nil {
		return nil
	}
	vendor, err := s.vendorRepo.GetByID(ctx, *vendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "vendor_id", Message: "vendor not found"}})
	}
	return nil
}

// resolveSKU returns the requested SKU if it is free, or a generated one. An
// explicit SKU that belongs to another material is a conflict; a generated one
// gets a numeric suffix instead.
func (s *MaterialService) resolveSKU(ctx context.Context, requested *string, name string, self uuid.UUID) (string, error) {
	if requested != nil && strings.TrimSpace(*requested) != "" {
		sku := strings.ToUpper(strings.TrimSpace(*requested))
		existing, err := s.materialRepo.GetBySKU(ctx, sku)
		if err != nil {
			return "", err
		}
		if existing != nil && existing.ID != self {
			return "", apperror.NewConflictError("SKU already in use")
		}
		return sku, nil
	}

	base := utils.SKU(name)
	if base == "" {
		base = "MAT"
	}
	candidate := base
	for i := 2; ; i++ {
		existing, err := s.materialRepo.GetBySKU(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil || existing.ID == self {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// GetMaterial retrieves a material by ID
func (s *MaterialService) GetMaterial(ctx context.Context, id uuid.UUID) (*entity.Material, error) {
	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, apperror.NewNotFoundError("Material")
	}
	return material, nil
}

// ListMaterials lists materials of the current tenant
func (s *MaterialService) ListMaterials(ctx context.Context, params *repository.MaterialFilterParams) (*pagination.PaginatedResult[entity.Material], error) {
	materials, total, err := s.materialRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(materials, pag), nil
}

// GetLowStock returns every material at or below its reorder level
func (s *MaterialService) GetLowStock(ctx context.Context) ([]entity.Material, error) {
	if _, err := tenantFromContext(ctx); err != nil {
		return nil, err
	}
	return s.materialRepo.GetLowStock(ctx)
}

// UpdateMaterial updates a material
func (s *MaterialService) UpdateMaterial(ctx context.Context, id uuid.UUID, input *MaterialInput) (*entity.Material, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}
	material, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.VendorID != nil {
		if err := s.checkVendor(ctx, input.VendorID); err != nil {
			return nil, err
		}
		material.VendorID = input.VendorID
		material.Vendor = nil
	}
	if input.Name != nil {
		material.Name = strings.TrimSpace(*input.Name)
	}
	if input.SKU != nil {
		sku, err := s.resolveSKU(ctx, input.SKU, material.Name, material.ID)
		if err != nil {
			return nil, err
		}
		material.SKU = sku
	}
	if input.Unit != nil {
		material.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Notes != nil {
		material.Notes = input.Notes
	}
	applyMaterialNumbers(material, input)

	if err := s.materialRepo.Update(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteMaterial deletes a material. Documents keep their priced lines.
func (s *MaterialService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMaterial(ctx, id); err != nil {
		return err
	}
	return s.materialRepo.Delete(ctx, id)
}
