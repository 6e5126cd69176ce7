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

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) domainRepo.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Omit("Vendor").Create(po).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Vendor").
		Preload("Items.Material").
		First(&po, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &po, err
}

// Update saves the header and replaces the line items
func (r *purchaseOrderRepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", po.ID).Delete(&entity.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		for i := range po.Items {
			po.Items[i].ID = uuid.Nil
			po.Items[i].PurchaseOrderID = po.ID
		}
		if len(po.Items) > 0 {
			if err := tx.Omit("Material").Create(&po.Items).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Vendor", "Items").Save(po).Error
	})
}

func (r *purchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(TenantScope(ctx)).Delete(&entity.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("purchase_order_id = ?", id).Delete(&entity.PurchaseOrderItem{}).Error
	})
}

func (r *purchaseOrderRepository) List(ctx context.Context, params *domainRepo.PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error) {
	var orders []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "number"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.VendorID != nil {
		query = query.Where("vendor_id = ?", *params.VendorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Vendor").
		Scopes(SortScope(params.SortBy, params.SortOrder, "created_at", "number", "total", "created_at")).
		Find(&orders).Error

	return orders, total, err
}

func (r *purchaseOrderRepository) Receive(ctx context.Context, po *entity.PurchaseOrder, updatePrices bool) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.PurchaseOrder{}).
			Where("id = ? AND tenant_id = ? AND status = ?", po.ID, po.TenantID, enum.PurchaseOrderStatusOrdered).
			Updates(map[string]interface{}{
				"status":      enum.PurchaseOrderStatusReceived,
				"received_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrStaleState
		}

		for _, item := range po.Items {
			updates := map[string]interface{}{
				"quantity_on_hand": gorm.Expr("quantity_on_hand + ?", item.Quantity),
			}
			if updatePrices {
				updates["purchase_price"] = item.UnitCost
			}
			if err := tx.Model(&entity.Material{}).
				Where("id = ? AND tenant_id = ?", item.MaterialID, po.TenantID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		po.Status = enum.PurchaseOrderStatusReceived
		po.ReceivedAt = &now
		return nil
	})
}
