package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/stripe"
	"github.com/sangkips/shopfloor-api/pkg/telemetry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// BillingService applies Stripe subscription events to tenants
type BillingService struct {
	webhook    *stripe.Webhook
	eventRepo  repository.BillingEventRepository
	tenantRepo repository.TenantRepository
	notifier   Notifier
	metrics    *telemetry.Metrics
}

// NewBillingService creates a new billing service
func NewBillingService(
	webhook *stripe.Webhook,
	eventRepo repository.BillingEventRepository,
	tenantRepo repository.TenantRepository,
	notifier Notifier,
	metrics *telemetry.Metrics,
) *BillingService {
	return &BillingService{
		webhook:    webhook,
		eventRepo:  eventRepo,
		tenantRepo: tenantRepo,
		notifier:   notifier,
		metrics:    metrics,
	}
}

// WebhookResult reports what happened to a delivery
type WebhookResult struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	Outcome   string `json:"outcome"`
	Duplicate bool   `json:"duplicate"`
}

// HandleWebhook verifies and applies one Stripe webhook delivery. Redelivered
// events are acknowledged without being applied again.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	if !s.webhook.IsConfigured() {
		return nil, apperror.NewAppError(apperror.ErrNotConfigured.Code, "Stripe webhook is not configured")
	}
	if err := s.webhook.Verify(payload, signature); err != nil {
		s.metrics.StripeEvent("unknown", "rejected")
		return nil, apperror.NewBadRequestError(err.Error())
	}

	event, err := stripe.Parse(payload)
	if err != nil {
		s.metrics.StripeEvent("unknown", "rejected")
		return nil, apperror.NewBadRequestError(err.Error())
	}
	log := logger.FromContext(ctx).With(zap.String("stripe_event", event.ID), zap.String("type", event.Type))

	existing, err := s.eventRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info("duplicate stripe event skipped")
		s.metrics.StripeEvent(event.Type, "duplicate")
		return &WebhookResult{EventID: event.ID, Type: event.Type, Outcome: existing.Status, Duplicate: true}, nil
	}

	record := &entity.BillingEvent{
		EventID:     event.ID,
		Type:        event.Type,
		Status:      entity.BillingEventIgnored,
		Payload:     datatypes.JSON(payload),
		ProcessedAt: time.Now(),
	}

	if event.Subscription != nil {
		tenant, applyErr := s.apply(ctx, event)
		switch {
		case applyErr != nil:
			msg := applyErr.Error()
			record.Status = entity.BillingEventFailed
			record.Error = &msg
			log.Warn("stripe event not applied", zap.Error(applyErr))
		default:
			record.Status = entity.BillingEventProcessed
			record.TenantID = &tenant.ID
		}
	}

	created, err := s.eventRepo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if !created {
		s.metrics.StripeEvent(event.Type, "duplicate")
		return &WebhookResult{EventID: event.ID, Type: event.Type, Outcome: record.Status, Duplicate: true}, nil
	}

	s.metrics.StripeEvent(event.Type, record.Status)
	log.Info("stripe event recorded", zap.String("outcome", record.Status))
	return &WebhookResult{EventID: event.ID, Type: event.Type, Outcome: record.Status}, nil
}

var errTenantNotResolved = errors.New("no tenant matches the event")

func (s *BillingService) apply(ctx context.Context, event *stripe.Event) (*entity.Tenant, error) {
	update := event.Subscription
	tenant, err := s.resolveTenant(ctx, update)
	if err != nil {
		return nil, err
	}

	previous := tenant.SubscriptionStatus
	if update.CustomerID != "" {
		tenant.StripeCustomerID = &update.CustomerID
	}
	if update.SubscriptionID != "" {
		tenant.StripeSubscriptionID = &update.SubscriptionID
	}
	if update.Plan != "" {
		tenant.SubscriptionPlan = update.Plan
	}
	if update.Status != "" {
		tenant.SubscriptionStatus = subscriptionStatus(update.Status, tenant.SubscriptionStatus)
	}
	if update.CurrentPeriodEnd != nil {
		tenant.CurrentPeriodEnd = update.CurrentPeriodEnd
	}

	if err := s.tenantRepo.UpdateSubscription(ctx, tenant); err != nil {
		return nil, err
	}

	if tenant.SubscriptionStatus != previous {
		s.notifier.Notify(ctx, &entity.Notification{
			TenantID:   tenant.ID,
			Type:       entity.NotificationSubscriptionChange,
			Title:      "Subscription " + tenant.SubscriptionStatus.String(),
			Body:       "Your subscription changed from " + previous.String() + " to " + tenant.SubscriptionStatus.String() + ".",
			EntityType: "tenant",
			EntityID:   &tenant.ID,
		})
	}
	return tenant, nil
}

// resolveTenant matches the event by metadata tenant ID, then by Stripe customer ID
func (s *BillingService) resolveTenant(ctx context.Context, update *stripe.SubscriptionUpdate) (*entity.Tenant, error) {
	if update.TenantID != "" {
		id, err := uuid.Parse(update.TenantID)
		if err == nil {
			tenant, err := s.tenantRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if tenant != nil {
				return tenant, nil
			}
		}
	}
	if update.CustomerID != "" {
		tenant, err := s.tenantRepo.GetByStripeCustomerID(ctx, update.CustomerID)
		if err != nil {
			return nil, err
		}
		if tenant != nil {
			return tenant, nil
		}
	}
	return nil, errTenantNotResolved
}

// subscriptionStatus maps a Stripe status string, keeping current for values we don't track
func subscriptionStatus(stripeStatus string, current enum.SubscriptionStatus) enum.SubscriptionStatus {
	switch stripeStatus {
	case "incomplete_expired":
		return enum.SubscriptionStatusCanceled
	case "paused":
		return enum.SubscriptionStatusPastDue
	}
	status, err := enum.ParseSubscriptionStatus(stripeStatus)
	if err != nil {
		return current
	}
	return status
}

// Subscription is the billing state of the current tenant
type Subscription struct {
	TenantID         uuid.UUID               `json:"tenant_id"`
	Plan             string                  `json:"plan"`
	Status           enum.SubscriptionStatus `json:"status"`
	Active           bool                    `json:"active"`
	CurrentPeriodEnd *time.Time              `json:"current_period_end,omitempty"`
	HasCustomer      bool                    `json:"has_customer"`
}

// GetSubscription returns the current tenant's subscription state
func (s *BillingService) GetSubscription(ctx context.Context) (*Subscription, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return &Subscription{
		TenantID:         tenant.ID,
		Plan:             tenant.SubscriptionPlan,
		Status:           tenant.SubscriptionStatus,
		Active:           tenant.HasActiveSubscription(),
		CurrentPeriodEnd: tenant.CurrentPeriodEnd,
		HasCustomer:      tenant.StripeCustomerID != nil,
	}, nil
}
