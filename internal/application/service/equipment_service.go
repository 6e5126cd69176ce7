package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"gorm.io/datatypes"
)

// EquipmentService handles equipment and add-on catalog operations
type EquipmentService struct {
	equipmentRepo repository.EquipmentRepository
	addOnRepo     repository.AddOnRepository
}

// NewEquipmentService creates a new equipment service
func NewEquipmentService(equipmentRepo repository.EquipmentRepository, addOnRepo repository.AddOnRepository) *EquipmentService {
	return &EquipmentService{equipmentRepo: equipmentRepo, addOnRepo: addOnRepo}
}

// EquipmentInput carries equipment fields. On update nil fields are left unchanged.
type EquipmentInput struct {
	Name         *string
	Category     *string
	HourlyRate   *float64
	FlatFee      *float64
	InkRates     *pricing.InkSet
	UseSoftWhite *bool
	Active       *bool
	Notes        *string
}

func (in *EquipmentInput) validate(create bool) error {
	var errs []apperror.FieldError
	if create || in.Name != nil {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
		}
	}
	if create || in.Category != nil {
		if in.Category == nil || strings.TrimSpace(*in.Category) == "" {
			errs = append(errs, apperror.FieldError{Field: "category", Message: "is required"})
		}
	}
	if in.HourlyRate != nil && *in.HourlyRate < 0 {
		errs = append(errs, apperror.FieldError{Field: "hourly_rate", Message: "must not be negative"})
	}
	if in.FlatFee != nil && *in.FlatFee < 0 {
		errs = append(errs, apperror.FieldError{Field: "flat_fee", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// EquipmentView is equipment plus whether ink pricing applies to it
type EquipmentView struct {
	*entity.Equipment
	PricedByInk bool `json:"priced_by_ink"`
}

func viewEquipment(e *entity.Equipment) *EquipmentView {
	return &EquipmentView{Equipment: e, PricedByInk: e.UsesInk()}
}

// CreateEquipment creates a piece of equipment. New equipment is active unless stated otherwise.
func (s *EquipmentService) CreateEquipment(ctx context.Context, input *EquipmentInput) (*EquipmentView, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(true); err != nil {
		return nil, err
	}

	equipment := &entity.Equipment{
		TenantID: tenantID,
		Name:     strings.TrimSpace(*input.Name),
		Category: strings.TrimSpace(*input.Category),
		Active:   true,
		Notes:    input.Notes,
	}
	applyEquipment(equipment, input)

	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		return nil, err
	}
	return viewEquipment(equipment), nil
}

func applyEquipment(e *entity.Equipment, input *EquipmentInput) {
	if input.HourlyRate != nil {
		e.HourlyRate = *input.HourlyRate
	}
	if input.FlatFee != nil {
		e.FlatFee = *input.FlatFee
	}
	if input.InkRates != nil {
		e.InkRates = datatypes.NewJSONType(*input.InkRates)
	}
	if input.UseSoftWhite != nil {
		e.UseSoftWhite = *input.UseSoftWhite
	}
	if input.Active != nil {
		e.Active = *input.Active
	}
}

// GetEquipment retrieves equipment by ID
func (s *EquipmentService) GetEquipment(ctx context.Context, id uuid.UUID) (*EquipmentView, error) {
	equipment, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if equipment == nil {
		return nil, apperror.NewNotFoundError("Equipment")
	}
	return viewEquipment(equipment), nil
}

// ListEquipment lists equipment of the current tenant
func (s *EquipmentService) ListEquipment(ctx context.Context, params *repository.EquipmentFilterParams) (*pagination.PaginatedResult[EquipmentView], error) {
	rows, total, err := s.equipmentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	views := make([]EquipmentView, len(rows))
	for i := range rows {
		views[i] = *viewEquipment(&rows[i])
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(views, pag), nil
}

// UpdateEquipment updates equipment. Existing documents keep their totals until re-priced.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uuid.UUID, input *EquipmentInput) (*EquipmentView, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}
	view, err := s.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	equipment := view.Equipment

	if input.Name != nil {
		equipment.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		equipment.Category = strings.TrimSpace(*input.Category)
	}
	if input.Notes != nil {
		equipment.Notes = input.Notes
	}
	applyEquipment(equipment, input)

	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		return nil, err
	}
	return viewEquipment(equipment), nil
}

// DeleteEquipment deletes equipment
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEquipment(ctx, id); err != nil {
		return err
	}
	return s.equipmentRepo.Delete(ctx, id)
}

// AddOnInput carries add-on fields. On update nil fields are left unchanged.
type AddOnInput struct {
	Name        *string
	Description *string
	UnitPrice   *float64
	Active      *bool
}

func (in *AddOnInput) validate(create bool) error {
	var errs []apperror.FieldError
	if create || in.Name != nil {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
		}
	}
	if in.UnitPrice != nil && *in.UnitPrice < 0 {
		errs = append(errs, apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// CreateAddOn creates an add-on
func (s *EquipmentService) CreateAddOn(ctx context.Context, input *AddOnInput) (*entity.AddOn, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(true); err != nil {
		return nil, err
	}

	addOn := &entity.AddOn{
		TenantID:    tenantID,
		Name:        strings.TrimSpace(*input.Name),
		Description: input.Description,
		Active:      true,
	}
	if input.UnitPrice != nil {
		addOn.UnitPrice = *input.UnitPrice
	}
	if input.Active != nil {
		addOn.Active = *input.Active
	}

	if err := s.addOnRepo.Create(ctx, addOn); err != nil {
		return nil, err
	}
	return addOn, nil
}

// GetAddOn retrieves an add-on by ID
func (s *EquipmentService) GetAddOn(ctx context.Context, id uuid.UUID) (*entity.AddOn, error) {
	addOn, err := s.addOnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if addOn == nil {
		return nil, apperror.NewNotFoundError("Add-on")
	}
	return addOn, nil
}

// ListAddOns lists add-ons of the current tenant
func (s *EquipmentService) ListAddOns(ctx context.Context, params *repository.EquipmentFilterParams) (*pagination.PaginatedResult[entity.AddOn], error) {
	addOns, total, err := s.addOnRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(addOns, pag), nil
}

// UpdateAddOn updates an add-on
func (s *EquipmentService) UpdateAddOn(ctx context.Context, id uuid.UUID, input *AddOnInput) (*entity.AddOn, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}
	addOn, err := s.GetAddOn(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		addOn.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		addOn.Description = input.Description
	}
	if input.UnitPrice != nil {
		addOn.UnitPrice = *input.UnitPrice
	}
	if input.Active != nil {
		addOn.Active = *input.Active
	}

	if err := s.addOnRepo.Update(ctx, addOn); err != nil {
		return nil, err
	}
	return addOn, nil
}

// DeleteAddOn deletes an add-on
func (s *EquipmentService) DeleteAddOn(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetAddOn(ctx, id); err != nil {
		return err
	}
	return s.addOnRepo.Delete(ctx, id)
}
