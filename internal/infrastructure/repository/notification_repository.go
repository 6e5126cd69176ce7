package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// visibleTo limits notifications to tenant-wide ones and those addressed to the user
func visibleTo(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id IS NULL OR user_id = ?", userID)
	}
}

// ListWithCursor returns notifications newest first using keyset pagination
func (r *notificationRepository) ListWithCursor(ctx context.Context, params *domainRepo.NotificationFilterParams) ([]entity.Notification, error) {
	var notifications []entity.Notification

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Scopes(TenantScope(ctx), visibleTo(params.UserID))

	if params.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("created_at < ? OR (created_at = ? AND id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("created_at > ? OR (created_at = ? AND id > ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "created_at"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Find(&notifications).Error

	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Scopes(TenantScope(ctx), visibleTo(userID)).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	var n entity.Notification
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx), visibleTo(userID)).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if n.ReadAt != nil {
		return true, nil
	}
	return true, r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ?", id).
		Update("read_at", time.Now()).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Scopes(TenantScope(ctx), visibleTo(userID)).
		Where("read_at IS NULL").
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

type billingEventRepository struct {
	db *gorm.DB
}

// NewBillingEventRepository creates a new billing event repository
func NewBillingEventRepository(db *gorm.DB) domainRepo.BillingEventRepository {
	return &billingEventRepository{db: db}
}

func (r *billingEventRepository) GetByEventID(ctx context.Context, eventID string) (*entity.BillingEvent, error) {
	var event entity.BillingEvent
	err := r.db.WithContext(ctx).First(&event, "event_id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &event, err
}

func (r *billingEventRepository) Create(ctx context.Context, event *entity.BillingEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
