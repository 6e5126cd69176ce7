package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"github.com/sangkips/shopfloor-api/pkg/telemetry"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order operations
type PurchaseOrderService struct {
	poRepo       repository.PurchaseOrderRepository
	vendorRepo   repository.VendorRepository
	materialRepo repository.MaterialRepository
	numberer     *DocumentNumberer
	settings     *SettingsService
	notifier     Notifier
	metrics      *telemetry.Metrics
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	poRepo repository.PurchaseOrderRepository,
	vendorRepo repository.VendorRepository,
	materialRepo repository.MaterialRepository,
	numberer *DocumentNumberer,
	settings *SettingsService,
	notifier Notifier,
	metrics *telemetry.Metrics,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		poRepo:       poRepo,
		vendorRepo:   vendorRepo,
		materialRepo: materialRepo,
		numberer:     numberer,
		settings:     settings,
		notifier:     notifier,
		metrics:      metrics,
	}
}

// PurchaseOrderItemInput represents a line on a purchase order
type PurchaseOrderItemInput struct {
	MaterialID  uuid.UUID
	Description string
	Quantity    float64
	UnitCost    float64
}

// CreatePurchaseOrderInput represents the create purchase order input
type CreatePurchaseOrderInput struct {
	CreatedByID    uuid.UUID
	VendorID       uuid.UUID
	TaxRatePercent float64
	Notes          *string
	Items          []PurchaseOrderItemInput
}

// CreatePurchaseOrder creates a draft purchase order
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, input *CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireVendor(ctx, input.VendorID); err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if input.TaxRatePercent < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "tax_rate_percent", Message: "must not be negative"}})
	}

	number, err := s.numberer.Next(ctx, tenantID, entity.DocumentKindPurchaseOrder)
	if err != nil {
		return nil, err
	}

	po := &entity.PurchaseOrder{
		TenantID:       tenantID,
		CreatedByID:    input.CreatedByID,
		VendorID:       input.VendorID,
		Number:         number,
		Status:         enum.PurchaseOrderStatusDraft,
		TaxRatePercent: input.TaxRatePercent,
		Notes:          input.Notes,
		Items:          items,
	}
	po.RecalculateTotals()

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	s.metrics.DocumentCreated(string(entity.DocumentKindPurchaseOrder))
	return po, nil
}

func (s *PurchaseOrderService) requireVendor(ctx context.Context, id uuid.UUID) error {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if vendor == nil {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "vendor_id", Message: "vendor not found"}})
	}
	return nil
}

// buildItems validates the lines and fills blank descriptions from the material names
func (s *PurchaseOrderService) buildItems(ctx context.Context, in []PurchaseOrderItemInput) ([]entity.PurchaseOrderItem, error) {
	if len(in) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "items", Message: "at least one item is required"}})
	}

	ids := make([]uuid.UUID, len(in))
	for i, item := range in {
		ids[i] = item.MaterialID
	}
	materials, err := s.materialRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Material, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	var errs []apperror.FieldError
	items := make([]entity.PurchaseOrderItem, 0, len(in))
	for i, item := range in {
		field := fmt.Sprintf("items[%d]", i)
		material, ok := byID[item.MaterialID]
		if !ok {
			errs = append(errs, apperror.FieldError{Field: field + ".material_id", Message: "material not found"})
			continue
		}
		if item.Quantity <= 0 {
			errs = append(errs, apperror.FieldError{Field: field + ".quantity", Message: "must be greater than zero"})
		}
		if item.UnitCost < 0 {
			errs = append(errs, apperror.FieldError{Field: field + ".unit_cost", Message: "must not be negative"})
		}
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			desc = material.Name
		}
		items = append(items, entity.PurchaseOrderItem{
			MaterialID:  item.MaterialID,
			Description: desc,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return items, nil
}

// GetPurchaseOrder retrieves a purchase order by ID
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	return po, nil
}

// ListPurchaseOrders lists purchase orders for the current tenant
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, params *repository.PurchaseOrderFilterParams) (*pagination.PaginatedResult[entity.PurchaseOrder], error) {
	orders, total, err := s.poRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// UpdatePurchaseOrderInput represents the update purchase order input
type UpdatePurchaseOrderInput struct {
	ID             uuid.UUID
	VendorID       *uuid.UUID
	TaxRatePercent *float64
	Notes          *string
	Items          []PurchaseOrderItemInput
}

// UpdatePurchaseOrder edits a draft purchase order
func (s *PurchaseOrderService) UpdatePurchaseOrder(ctx context.Context, input *UpdatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if po.Status != enum.PurchaseOrderStatusDraft {
		return nil, apperror.NewUnprocessableError("Only draft purchase orders can be edited")
	}

	if input.VendorID != nil && *input.VendorID != po.VendorID {
		if err := s.requireVendor(ctx, *input.VendorID); err != nil {
			return nil, err
		}
		po.VendorID = *input.VendorID
		po.Vendor = nil
	}
	if input.TaxRatePercent != nil {
		if *input.TaxRatePercent < 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "tax_rate_percent", Message: "must not be negative"}})
		}
		po.TaxRatePercent = *input.TaxRatePercent
	}
	if input.Notes != nil {
		po.Notes = input.Notes
	}
	if input.Items != nil {
		items, err := s.buildItems(ctx, input.Items)
		if err != nil {
			return nil, err
		}
		po.Items = items
	}
	po.RecalculateTotals()

	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// DeletePurchaseOrder deletes a draft purchase order
func (s *PurchaseOrderService) DeletePurchaseOrder(ctx context.Context, id uuid.UUID) error {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != enum.PurchaseOrderStatusDraft {
		return apperror.NewUnprocessableError("Only draft purchase orders can be deleted")
	}
	return s.poRepo.Delete(ctx, id)
}

// MarkOrdered sends a draft purchase order to the vendor
func (s *PurchaseOrderService) MarkOrdered(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != enum.PurchaseOrderStatusDraft {
		return nil, apperror.NewUnprocessableError("Only draft purchase orders can be ordered")
	}

	now := time.Now()
	po.Status = enum.PurchaseOrderStatusOrdered
	po.OrderedAt = &now
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// ReceivePurchaseOrder books an ordered purchase order into stock. With
// updatePrices each material's purchase price becomes the received unit cost.
func (s *PurchaseOrderService) ReceivePurchaseOrder(ctx context.Context, id uuid.UUID, updatePrices bool) (*entity.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != enum.PurchaseOrderStatusOrdered {
		return nil, apperror.NewUnprocessableError("Only ordered purchase orders can be received")
	}

	if err := s.poRepo.Receive(ctx, po, updatePrices); err != nil {
		return nil, staleAsConflict(err, "Purchase order changed state concurrently")
	}

	logger.FromContext(ctx).Info("purchase order received",
		zap.String("number", po.Number), zap.Int("lines", len(po.Items)))
	s.alertLowStock(ctx, po)
	return po, nil
}

// alertLowStock raises a notification for received materials still at or below their reorder level
func (s *PurchaseOrderService) alertLowStock(ctx context.Context, po *entity.PurchaseOrder) {
	log := logger.FromContext(ctx)
	settings, err := s.settings.ForTenant(ctx, po.TenantID)
	if err != nil {
		log.Warn("failed to load settings for low stock check", zap.Error(err))
		return
	}
	if !settings.LowStockAlerts {
		return
	}

	ids := make([]uuid.UUID, len(po.Items))
	for i, item := range po.Items {
		ids[i] = item.MaterialID
	}
	materials, err := s.materialRepo.GetByIDs(ctx, ids)
	if err != nil {
		log.Warn("failed to reload materials for low stock check", zap.Error(err))
		return
	}

	var low []string
	for i := range materials {
		if materials[i].IsLowStock() {
			low = append(low, fmt.Sprintf("%s (%g %s)", materials[i].Name, materials[i].QuantityOnHand, materials[i].Unit))
		}
	}
	if len(low) == 0 {
		return
	}
	s.notifier.Notify(ctx, &entity.Notification{
		TenantID:   po.TenantID,
		Type:       entity.NotificationLowStock,
		Title:      "Low stock after " + po.Number,
		Body:       "Still at or below reorder level: " + strings.Join(low, ", "),
		EntityType: "purchase_order",
		EntityID:   &po.ID,
	})
}

// CancelPurchaseOrder cancels a draft or ordered purchase order
func (s *PurchaseOrderService) CancelPurchaseOrder(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != enum.PurchaseOrderStatusDraft && po.Status != enum.PurchaseOrderStatusOrdered {
		return nil, apperror.NewUnprocessableError("Only draft or ordered purchase orders can be cancelled")
	}

	po.Status = enum.PurchaseOrderStatusCancelled
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}
