package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/email"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"go.uber.org/zap"
)

// Mailer is the outbound email surface the services depend on
type Mailer interface {
	IsConfigured() bool
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
	SendInvoiceEmail(ctx context.Context, data email.InvoiceEmail) error
	SendNotificationEmail(ctx context.Context, to, title, message string) error
}

// Notifier records in-app notifications. Failures are logged, never returned,
// so a notification can't undo the operation that raised it.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification)
}

// NotificationService stores notifications and relays them to the tenant owner by email
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	tenantRepo       repository.TenantRepository
	userRepo         repository.UserRepository
	settings         *SettingsService
	mailer           Mailer
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	settings *SettingsService,
	mailer Mailer,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		tenantRepo:       tenantRepo,
		userRepo:         userRepo,
		settings:         settings,
		mailer:           mailer,
	}
}

// Notify stores n and, when the shop asks for it, emails the owner
func (s *NotificationService) Notify(ctx context.Context, n *entity.Notification) {
	log := logger.FromContext(ctx)
	if n.TenantID == uuid.Nil {
		log.Warn("notification without tenant dropped", zap.String("type", n.Type))
		return
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Warn("failed to store notification", zap.String("type", n.Type), zap.Error(err))
		return
	}

	if s.mailer == nil || !s.mailer.IsConfigured() {
		return
	}
	settings, err := s.settings.ForTenant(ctx, n.TenantID)
	if err != nil {
		log.Warn("failed to load settings for notification email", zap.Error(err))
		return
	}
	if !settings.NotifyOwnerByEmail {
		return
	}

	to, err := s.ownerEmail(ctx, n.TenantID)
	if err != nil || to == "" {
		if err != nil {
			log.Warn("failed to resolve owner email", zap.Error(err))
		}
		return
	}
	if err := s.mailer.SendNotificationEmail(ctx, to, n.Title, n.Body); err != nil {
		log.Warn("failed to email notification", zap.String("type", n.Type), zap.Error(err))
	}
}

func (s *NotificationService) ownerEmail(ctx context.Context, tenantID uuid.UUID) (string, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil || tenant == nil {
		return "", err
	}
	owner, err := s.userRepo.GetByID(ctx, tenant.OwnerID)
	if err != nil || owner == nil {
		return "", err
	}
	return owner.Email, nil
}

// NotificationList is a cursor page of notifications plus the unread count
type NotificationList struct {
	*pagination.CursorPaginatedResult[entity.Notification]
	Unread int64 `json:"unread"`
}

// ListNotifications lists notifications visible to the user, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, unreadOnly bool) (*NotificationList, error) {
	if _, err := tenantFromContext(ctx); err != nil {
		return nil, err
	}

	params.Validate()
	rows, err := s.notificationRepo.ListWithCursor(ctx, &repository.NotificationFilterParams{
		Cursor:     params,
		UserID:     userID,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	cursorPag, items := pagination.NewCursorPagination(rows, params.Limit,
		func(n entity.Notification) string { return n.ID.String() },
		func(n entity.Notification) time.Time { return n.CreatedAt },
	)
	cursorPag.HasPrev = params.Cursor != ""

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationList{
		CursorPaginatedResult: pagination.NewCursorPaginatedResult(items, cursorPag),
		Unread:                unread,
	}, nil
}

// MarkRead marks one notification read for the user
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := tenantFromContext(ctx); err != nil {
		return err
	}
	found, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NewNotFoundError("Notification")
	}
	return nil
}

// MarkAllRead marks every visible notification read and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if _, err := tenantFromContext(ctx); err != nil {
		return 0, err
	}
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
