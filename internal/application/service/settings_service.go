package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
)

// SettingsService handles shop settings business logic
type SettingsService struct {
	settingsRepo repository.ShopSettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.ShopSettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves the current tenant's settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.ShopSettings, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.ForTenant(ctx, tenantID)
}

// ForTenant retrieves a tenant's settings, creating defaults if none exist
func (s *SettingsService) ForTenant(ctx context.Context, tenantID uuid.UUID) (*entity.ShopSettings, error) {
	settings, err := s.settingsRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	// A concurrent first read may insert the row first; re-read either way.
	if err := s.settingsRepo.Create(ctx, entity.DefaultShopSettings(tenantID)); err != nil {
		return nil, err
	}
	settings, err = s.settingsRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, apperror.NewNotFoundError("Shop settings")
	}
	return settings, nil
}

// Provision creates the default settings of a new tenant, branded with its shop name
func (s *SettingsService) Provision(ctx context.Context, tenantID uuid.UUID, businessName, email string) error {
	settings := entity.DefaultShopSettings(tenantID)
	settings.BusinessName = businessName
	settings.Email = email
	return s.settingsRepo.Create(ctx, settings)
}

// UpdateSettingsInput represents the input for updating shop settings
type UpdateSettingsInput struct {
	BusinessName          *string
	Address               *string
	Phone                 *string
	Email                 *string
	TaxID                 *string
	Currency              *string
	TaxLabel              *string
	DefaultMarginPercent  *float64
	DefaultTaxRatePercent *float64
	InvoiceDueDays        *int
	QuotePrefix           *string
	JobPrefix             *string
	InvoicePrefix         *string
	PurchaseOrderPrefix   *string
	InvoiceFooter         *string
	EmailOnInvoiceIssued  *bool
	LowStockAlerts        *bool
	NotifyOwnerByEmail    *bool
}

func (in *UpdateSettingsInput) validate() error {
	var errs []apperror.FieldError
	if in.DefaultMarginPercent != nil && *in.DefaultMarginPercent < 0 {
		errs = append(errs, apperror.FieldError{Field: "default_margin_percent", Message: "must not be negative"})
	}
	if in.DefaultTaxRatePercent != nil && (*in.DefaultTaxRatePercent < 0 || *in.DefaultTaxRatePercent > 100) {
		errs = append(errs, apperror.FieldError{Field: "default_tax_rate_percent", Message: "must be between 0 and 100"})
	}
	if in.InvoiceDueDays != nil && (*in.InvoiceDueDays < 0 || *in.InvoiceDueDays > 365) {
		errs = append(errs, apperror.FieldError{Field: "invoice_due_days", Message: "must be between 0 and 365"})
	}
	if in.Currency != nil && strings.TrimSpace(*in.Currency) == "" {
		errs = append(errs, apperror.FieldError{Field: "currency", Message: "is required"})
	}
	for field, p := range map[string]*string{
		"quote_prefix":          in.QuotePrefix,
		"job_prefix":            in.JobPrefix,
		"invoice_prefix":        in.InvoicePrefix,
		"purchase_order_prefix": in.PurchaseOrderPrefix,
	} {
		if p != nil && (strings.TrimSpace(*p) == "" || len(*p) > 10) {
			errs = append(errs, apperror.FieldError{Field: field, Message: "must be 1 to 10 characters"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// UpdateSettings updates the current tenant's settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.ShopSettings, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	setString(&settings.BusinessName, input.BusinessName)
	setString(&settings.Address, input.Address)
	setString(&settings.Phone, input.Phone)
	setString(&settings.Email, input.Email)
	setString(&settings.TaxID, input.TaxID)
	setString(&settings.TaxLabel, input.TaxLabel)
	setString(&settings.InvoiceFooter, input.InvoiceFooter)
	if input.Currency != nil {
		settings.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.DefaultMarginPercent != nil {
		settings.DefaultMarginPercent = *input.DefaultMarginPercent
	}
	if input.DefaultTaxRatePercent != nil {
		settings.DefaultTaxRatePercent = *input.DefaultTaxRatePercent
	}
	if input.InvoiceDueDays != nil {
		settings.InvoiceDueDays = *input.InvoiceDueDays
	}
	setString(&settings.QuotePrefix, input.QuotePrefix)
	setString(&settings.JobPrefix, input.JobPrefix)
	setString(&settings.InvoicePrefix, input.InvoicePrefix)
	setString(&settings.PurchaseOrderPrefix, input.PurchaseOrderPrefix)
	if input.EmailOnInvoiceIssued != nil {
		settings.EmailOnInvoiceIssued = *input.EmailOnInvoiceIssued
	}
	if input.LowStockAlerts != nil {
		settings.LowStockAlerts = *input.LowStockAlerts
	}
	if input.NotifyOwnerByEmail != nil {
		settings.NotifyOwnerByEmail = *input.NotifyOwnerByEmail
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
