package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"github.com/sangkips/shopfloor-api/pkg/pdf"
	"github.com/sangkips/shopfloor-api/pkg/telemetry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// QuoteService handles quote business logic
type QuoteService struct {
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	pricer       *Pricer
	numberer     *DocumentNumberer
	settings     *SettingsService
	metrics      *telemetry.Metrics
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	pricer *Pricer,
	numberer *DocumentNumberer,
	settings *SettingsService,
	metrics *telemetry.Metrics,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		pricer:       pricer,
		numberer:     numberer,
		settings:     settings,
		metrics:      metrics,
	}
}

// CreateQuoteInput represents the create quote input
type CreateQuoteInput struct {
	CreatedByID   uuid.UUID
	CustomerID    uuid.UUID
	Title         string
	Items         pricing.LineItems
	MarginPercent *float64
	ValidUntil    *time.Time
	Notes         *string
}

// CreateQuote prices and stores a new open quote
func (s *QuoteService) CreateQuote(ctx context.Context, input *CreateQuoteInput) (*entity.Quote, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "title", Message: "is required"}})
	}
	if err := requireCustomer(ctx, s.customerRepo, input.CustomerID); err != nil {
		return nil, err
	}

	margin, err := s.defaultMargin(ctx, tenantID, input.MarginPercent)
	if err != nil {
		return nil, err
	}

	items, totals, err := s.pricer.Price(ctx, input.Items, margin)
	if err != nil {
		return nil, err
	}

	number, err := s.numberer.Next(ctx, tenantID, entity.DocumentKindQuote)
	if err != nil {
		return nil, err
	}

	quote := &entity.Quote{
		TenantID:    tenantID,
		CreatedByID: input.CreatedByID,
		CustomerID:  input.CustomerID,
		Number:      number,
		Title:       strings.TrimSpace(input.Title),
		Status:      enum.QuoteStatusOpen,
		ValidUntil:  input.ValidUntil,
		Notes:       input.Notes,
	}
	quote.Items = datatypes.NewJSONType(items)
	quote.MarginPercent = margin
	quote.ApplyTotals(totals)

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}
	s.metrics.DocumentCreated(string(entity.DocumentKindQuote))
	return quote, nil
}

func (s *QuoteService) defaultMargin(ctx context.Context, tenantID uuid.UUID, margin *float64) (float64, error) {
	if margin != nil {
		return *margin, nil
	}
	settings, err := s.settings.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return settings.DefaultMarginPercent, nil
}

// GetQuote retrieves a quote by ID. Open and accepted quotes are priced
// against current reference data; the stored figures are not touched.
func (s *QuoteService) GetQuote(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	quote, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.livePrice(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) find(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.NewNotFoundError("Quote")
	}
	return quote, nil
}

// livePrice refreshes an editable quote in memory. Declined and converted
// quotes keep the totals they were saved with.
func (s *QuoteService) livePrice(ctx context.Context, quote *entity.Quote) error {
	if !quote.IsEditable() {
		return nil
	}
	return s.reprice(ctx, quote, quote.Items.Data())
}

// ListQuotes lists quotes for the current tenant
func (s *QuoteService) ListQuotes(ctx context.Context, params *repository.QuoteFilterParams) (*pagination.PaginatedResult[entity.Quote], error) {
	quotes, total, err := s.quoteRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		if err := s.livePrice(ctx, &quotes[i]); err != nil {
			return nil, err
		}
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotes, pag), nil
}

// UpdateQuoteInput represents the update quote input
type UpdateQuoteInput struct {
	ID            uuid.UUID
	CustomerID    *uuid.UUID
	Title         *string
	Items         *pricing.LineItems
	MarginPercent *float64
	ValidUntil    *time.Time
	Notes         *string
}

// UpdateQuote edits an open or accepted quote and re-prices it
func (s *QuoteService) UpdateQuote(ctx context.Context, input *UpdateQuoteInput) (*entity.Quote, error) {
	quote, err := s.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !quote.IsEditable() {
		return nil, apperror.NewUnprocessableError("Quote can no longer be edited")
	}

	if input.CustomerID != nil && *input.CustomerID != quote.CustomerID {
		if err := requireCustomer(ctx, s.customerRepo, *input.CustomerID); err != nil {
			return nil, err
		}
		quote.CustomerID = *input.CustomerID
		quote.Customer = nil
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "title", Message: "is required"}})
		}
		quote.Title = strings.TrimSpace(*input.Title)
	}
	if input.ValidUntil != nil {
		quote.ValidUntil = input.ValidUntil
	}
	if input.Notes != nil {
		quote.Notes = input.Notes
	}

	items := quote.Items.Data()
	if input.Items != nil {
		items = *input.Items
	}
	if input.MarginPercent != nil {
		quote.MarginPercent = *input.MarginPercent
	}

	if err := s.reprice(ctx, quote, items); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) reprice(ctx context.Context, quote *entity.Quote, items pricing.LineItems) error {
	priced, totals, err := s.pricer.Price(ctx, items, quote.MarginPercent)
	if err != nil {
		return err
	}
	quote.Items = datatypes.NewJSONType(priced)
	quote.ApplyTotals(totals)
	return nil
}

// RecalculateQuote re-prices a quote against current reference prices
func (s *QuoteService) RecalculateQuote(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	quote, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quote.IsEditable() {
		return nil, apperror.NewUnprocessableError("Quote can no longer be re-priced")
	}
	if err := s.reprice(ctx, quote, quote.Items.Data()); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// PreviewResult is the priced form of an unsaved document
type PreviewResult struct {
	Items  pricing.LineItems      `json:"items"`
	Totals pricing.DocumentTotals `json:"totals"`
}

// PreviewTotals prices lines without storing anything
func (s *QuoteService) PreviewTotals(ctx context.Context, items pricing.LineItems, marginPercent *float64) (*PreviewResult, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	margin, err := s.defaultMargin(ctx, tenantID, marginPercent)
	if err != nil {
		return nil, err
	}
	priced, totals, err := s.pricer.Price(ctx, items, margin)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Items: priced, Totals: totals}, nil
}

// UpdateQuoteStatus moves a quote between open, accepted and declined
func (s *QuoteService) UpdateQuoteStatus(ctx context.Context, id uuid.UUID, status enum.QuoteStatus) (*entity.Quote, error) {
	quote, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status == enum.QuoteStatusConverted {
		return nil, apperror.NewUnprocessableError("Quote has already been converted to a job")
	}
	if status == enum.QuoteStatusConverted {
		return nil, apperror.NewBadRequestError("Use the convert endpoint to turn a quote into a job")
	}
	if quote.Status == status {
		return quote, nil
	}

	quote.Status = status
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// DeleteQuote deletes a quote that has not been converted
func (s *QuoteService) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	quote, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if quote.Status == enum.QuoteStatusConverted {
		return apperror.NewUnprocessableError("Converted quotes cannot be deleted")
	}
	return s.quoteRepo.Delete(ctx, id)
}

// ConvertToJob creates an active job from an open or accepted quote.
// The job is re-priced from live reference data; the quote becomes converted.
func (s *QuoteService) ConvertToJob(ctx context.Context, id, createdByID uuid.UUID, dueDate *time.Time) (*entity.Job, error) {
	quote, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quote.CanConvert() {
		return nil, apperror.NewUnprocessableError("Only open or accepted quotes can be converted")
	}

	items, totals, err := s.pricer.Price(ctx, quote.Items.Data(), quote.MarginPercent)
	if err != nil {
		return nil, err
	}

	number, err := s.numberer.Next(ctx, quote.TenantID, entity.DocumentKindJob)
	if err != nil {
		return nil, err
	}

	job := &entity.Job{
		TenantID:    quote.TenantID,
		CreatedByID: createdByID,
		CustomerID:  quote.CustomerID,
		QuoteID:     &quote.ID,
		Number:      number,
		Title:       quote.Title,
		Status:      enum.JobStatusActive,
		DueDate:     dueDate,
		Notes:       quote.Notes,
	}
	job.Items = datatypes.NewJSONType(items)
	job.MarginPercent = quote.MarginPercent
	job.ApplyTotals(totals)

	if err := s.quoteRepo.ConvertToJob(ctx, quote, job); err != nil {
		return nil, staleAsConflict(err, "Quote was converted by another request")
	}

	logger.FromContext(ctx).Info("quote converted",
		zap.String("quote", quote.Number), zap.String("job", job.Number))
	s.metrics.DocumentCreated(string(entity.DocumentKindJob))
	return job, nil
}

// QuotePDF renders a quote as PDF and returns it with a file name
func (s *QuoteService) QuotePDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, "", err
	}
	settings, err := s.settings.ForTenant(ctx, quote.TenantID)
	if err != nil {
		return nil, "", err
	}
	data, err := pdf.Render(quoteDocument(quote, settings))
	if err != nil {
		return nil, "", err
	}
	return data, quote.Number + ".pdf", nil
}

func requireCustomer(ctx context.Context, repo repository.CustomerRepository, id uuid.UUID) error {
	customer, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "customer_id", Message: "customer not found"}})
	}
	return nil
}
