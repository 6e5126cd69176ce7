package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
)

// NotificationFilterParams contains filtering parameters for notification queries
type NotificationFilterParams struct {
	Cursor     *pagination.CursorParams
	UserID     uuid.UUID
	UnreadOnly bool
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	// ListWithCursor returns notifications visible to the user, newest first,
	// fetching limit+1 rows so the caller can detect another page.
	ListWithCursor(ctx context.Context, params *NotificationFilterParams) ([]entity.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// BillingEventRepository defines the interface for recorded Stripe events
type BillingEventRepository interface {
	GetByEventID(ctx context.Context, eventID string) (*entity.BillingEvent, error)
	// Create records the event. It returns false without error when the event ID
	// has already been recorded.
	Create(ctx context.Context, event *entity.BillingEvent) (bool, error)
}
