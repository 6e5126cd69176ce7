package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/email"
	"github.com/sangkips/shopfloor-api/pkg/export"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"github.com/sangkips/shopfloor-api/pkg/pdf"
	"github.com/sangkips/shopfloor-api/pkg/telemetry"
	"go.uber.org/zap"
)

// DashboardInvalidator drops cached dashboard figures for a tenant
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// InvoiceService handles invoice business logic. Invoices are frozen
// snapshots of completed jobs; only the adjustments can change.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	jobRepo     repository.JobRepository
	numberer    *DocumentNumberer
	settings    *SettingsService
	notifier    Notifier
	mailer      Mailer
	dashboard   DashboardInvalidator
	metrics     *telemetry.Metrics
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	jobRepo repository.JobRepository,
	numberer *DocumentNumberer,
	settings *SettingsService,
	notifier Notifier,
	mailer Mailer,
	dashboard DashboardInvalidator,
	metrics *telemetry.Metrics,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		jobRepo:     jobRepo,
		numberer:    numberer,
		settings:    settings,
		notifier:    notifier,
		mailer:      mailer,
		dashboard:   dashboard,
		metrics:     metrics,
		now:         time.Now,
	}
}

// GenerateFromJob issues the invoice for a completed job. Each job is invoiced at most once.
func (s *InvoiceService) GenerateFromJob(ctx context.Context, jobID, createdByID uuid.UUID) (*entity.Invoice, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}
	if job.Status == enum.JobStatusInvoiced || job.InvoiceID != nil {
		return nil, apperror.NewConflictError("Job has already been invoiced")
	}
	if job.Status != enum.JobStatusCompleted {
		return nil, apperror.NewUnprocessableError("Only completed jobs can be invoiced")
	}

	settings, err := s.settings.ForTenant(ctx, job.TenantID)
	if err != nil {
		return nil, err
	}
	number, err := s.numberer.Next(ctx, job.TenantID, entity.DocumentKindInvoice)
	if err != nil {
		return nil, err
	}

	issued := s.now()
	invoice := &entity.Invoice{
		TenantID:       job.TenantID,
		CreatedByID:    createdByID,
		CustomerID:     job.CustomerID,
		JobID:          job.ID,
		Number:         number,
		Status:         enum.InvoiceStatusUnpaid,
		Items:          job.Items,
		Snapshot:       job.Totals,
		TaxRatePercent: settings.DefaultTaxRatePercent,
		DiscountType:   pricing.DiscountFlat,
		IssuedAt:       issued,
	}
	if settings.InvoiceDueDays > 0 {
		due := issued.AddDate(0, 0, settings.InvoiceDueDays)
		invoice.DueDate = &due
	}
	invoice.Recompute()

	if err := s.invoiceRepo.CreateFromJob(ctx, invoice); err != nil {
		return nil, staleAsConflict(err, "Job has already been invoiced")
	}
	invoice.Customer = job.Customer
	invoice.Job = job

	s.metrics.DocumentCreated(string(entity.DocumentKindInvoice))
	s.metrics.InvoiceIssued(invoice.Total)
	s.invalidateDashboard(ctx, invoice.TenantID)
	s.notifier.Notify(ctx, &entity.Notification{
		TenantID:   invoice.TenantID,
		Type:       entity.NotificationInvoiceIssued,
		Title:      "Invoice " + invoice.Number + " issued",
		Body:       "Invoice for job " + job.Number + " totals " + money(settings.Currency, invoice.Total) + ".",
		EntityType: "invoice",
		EntityID:   &invoice.ID,
	})

	if settings.EmailOnInvoiceIssued && job.Customer != nil && deref(job.Customer.Email) != "" {
		if err := s.send(ctx, invoice, settings, deref(job.Customer.Email)); err != nil {
			logger.FromContext(ctx).Warn("failed to email new invoice",
				zap.String("invoice", invoice.Number), zap.Error(err))
		}
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices for the current tenant
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Now.IsZero() {
		params.Now = s.now()
	}
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// UpdateInvoiceInput holds the adjustments an unpaid invoice accepts
type UpdateInvoiceInput struct {
	ID                  uuid.UUID
	TaxRatePercent      *float64
	DiscountType        *pricing.DiscountType
	DiscountValue       *float64
	TaxOnDiscountedBase *bool
	Deposit             *float64
	DueDate             *time.Time
	Notes               *string
}

func (in *UpdateInvoiceInput) validate() error {
	var errs []apperror.FieldError
	if in.DiscountType != nil && !in.DiscountType.Valid() {
		errs = append(errs, apperror.FieldError{Field: "discount_type", Message: "must be flat or percent"})
	}
	if in.DiscountValue != nil && *in.DiscountValue < 0 {
		errs = append(errs, apperror.FieldError{Field: "discount_value", Message: "must not be negative"})
	}
	if in.Deposit != nil && *in.Deposit < 0 {
		errs = append(errs, apperror.FieldError{Field: "deposit", Message: "must not be negative"})
	}
	if in.TaxRatePercent != nil && *in.TaxRatePercent < 0 {
		errs = append(errs, apperror.FieldError{Field: "tax_rate_percent", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// UpdateInvoice applies adjustments to an unpaid invoice and recomputes its figures
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	invoice, err := s.GetInvoice(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != enum.InvoiceStatusUnpaid {
		return nil, apperror.NewUnprocessableError("Only unpaid invoices can be adjusted")
	}

	if input.TaxRatePercent != nil {
		invoice.TaxRatePercent = *input.TaxRatePercent
	}
	if input.DiscountType != nil {
		invoice.DiscountType = *input.DiscountType
	}
	if input.DiscountValue != nil {
		invoice.DiscountValue = *input.DiscountValue
	}
	if input.TaxOnDiscountedBase != nil {
		invoice.TaxOnDiscountedBase = *input.TaxOnDiscountedBase
	}
	if input.Deposit != nil {
		invoice.Deposit = *input.Deposit
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.Notes != nil {
		invoice.Notes = input.Notes
	}
	invoice.Recompute()

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, invoice.TenantID)
	return invoice, nil
}

// MarkPaidInput records how an invoice was settled
type MarkPaidInput struct {
	ID        uuid.UUID
	Method    *string
	Reference *string
	PaidAt    *time.Time
}

// MarkPaid settles an unpaid invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, input *MarkPaidInput) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != enum.InvoiceStatusUnpaid {
		return nil, apperror.NewUnprocessableError("Only unpaid invoices can be marked paid")
	}

	paidAt := s.now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}
	invoice.Status = enum.InvoiceStatusPaid
	invoice.PaidAt = &paidAt
	invoice.PaymentMethod = input.Method
	invoice.PaymentReference = input.Reference

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, invoice.TenantID)

	settings, err := s.settings.ForTenant(ctx, invoice.TenantID)
	currency := ""
	if err == nil {
		currency = settings.Currency
	}
	s.notifier.Notify(ctx, &entity.Notification{
		TenantID:   invoice.TenantID,
		Type:       entity.NotificationInvoicePaid,
		Title:      "Invoice " + invoice.Number + " paid",
		Body:       money(currency, invoice.Total) + " received.",
		EntityType: "invoice",
		EntityID:   &invoice.ID,
	})
	return invoice, nil
}

// VoidInvoice voids an unpaid invoice. The job stays invoiced.
func (s *InvoiceService) VoidInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != enum.InvoiceStatusUnpaid {
		return nil, apperror.NewUnprocessableError("Only unpaid invoices can be voided")
	}

	invoice.Status = enum.InvoiceStatusVoid
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, invoice.TenantID)
	return invoice, nil
}

// DeleteInvoice removes an unpaid invoice and reopens its job as completed
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != enum.InvoiceStatusUnpaid {
		return apperror.NewUnprocessableError("Only unpaid invoices can be deleted")
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return staleAsConflict(err, "Invoice changed state concurrently")
	}
	s.invalidateDashboard(ctx, invoice.TenantID)
	return nil
}

// InvoicePDF renders an invoice as PDF and returns it with a file name
func (s *InvoiceService) InvoicePDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, "", err
	}
	settings, err := s.settings.ForTenant(ctx, invoice.TenantID)
	if err != nil {
		return nil, "", err
	}
	data, err := pdf.Render(invoiceDocument(invoice, settings))
	if err != nil {
		return nil, "", err
	}
	return data, invoice.Number + ".pdf", nil
}

// EmailInvoice sends the invoice PDF to to, or to the customer's address when to is empty
func (s *InvoiceService) EmailInvoice(ctx context.Context, id uuid.UUID, to string) error {
	if s.mailer == nil || !s.mailer.IsConfigured() {
		return apperror.NewAppError(apperror.ErrNotConfigured.Code, "Email is not configured")
	}

	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status == enum.InvoiceStatusVoid {
		return apperror.NewUnprocessableError("Void invoices cannot be emailed")
	}

	to = strings.TrimSpace(to)
	if to == "" && invoice.Customer != nil {
		to = deref(invoice.Customer.Email)
	}
	if to == "" {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "to", Message: "customer has no email address"}})
	}

	settings, err := s.settings.ForTenant(ctx, invoice.TenantID)
	if err != nil {
		return err
	}
	return s.send(ctx, invoice, settings, to)
}

func (s *InvoiceService) send(ctx context.Context, invoice *entity.Invoice, settings *entity.ShopSettings, to string) error {
	attachment, err := pdf.Render(invoiceDocument(invoice, settings))
	if err != nil {
		return err
	}

	data := email.InvoiceEmail{
		To:            to,
		ShopName:      nameOr(settings.BusinessName, "Shop"),
		InvoiceNumber: invoice.Number,
		TotalDue:      money(settings.Currency, invoice.TotalDue),
		DueDate:       formatDate(invoice.DueDate),
		Overdue:       invoice.IsOverdue(time.Now()),
		Footer:        settings.InvoiceFooter,
		PDF:           attachment,
	}
	if invoice.Customer != nil {
		data.CustomerName = invoice.Customer.DisplayName()
	}
	return s.mailer.SendInvoiceEmail(ctx, data)
}

var invoiceColumns = []export.Column{
	{Header: "Number", Width: 14},
	{Header: "Issued", Width: 12},
	{Header: "Due", Width: 12},
	{Header: "Customer", Width: 28},
	{Header: "Status", Width: 10},
	{Header: "Subtotal", Width: 14, Money: true},
	{Header: "Discount", Width: 14, Money: true},
	{Header: "Tax", Width: 14, Money: true},
	{Header: "Total", Width: 14, Money: true},
	{Header: "Deposit", Width: 14, Money: true},
	{Header: "Balance due", Width: 14, Money: true},
}

// ExportInvoices writes the filtered invoice list as an XLSX workbook
func (s *InvoiceService) ExportInvoices(ctx context.Context, params *repository.InvoiceFilterParams) ([]byte, error) {
	if params.Now.IsZero() {
		params.Now = s.now()
	}
	invoices, err := s.invoiceRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		customer := ""
		if inv.Customer != nil {
			customer = inv.Customer.DisplayName()
		}
		rows = append(rows, []any{
			inv.Number, inv.IssuedAt.Format(dateLayout), formatDate(inv.DueDate), customer, inv.Status.String(),
			inv.PreTax, inv.Discount, inv.Tax, inv.Total, inv.Deposit, inv.TotalDue,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.Sheet{Name: "Invoices", Columns: invoiceColumns, Rows: rows}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *InvoiceService) invalidateDashboard(ctx context.Context, tenantID uuid.UUID) {
	if s.dashboard == nil {
		return
	}
	if err := s.dashboard.Invalidate(ctx, tenantID); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
