package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
)

const pdfContentType = "application/pdf"

// QuoteHandler handles quote HTTP requests
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// List handles listing quotes
// @Summary List Quotes
// @Tags quotes
// @Security BearerAuth
// @Produce json
// @Param status query string false "open, accepted, declined or converted"
// @Param customer_id query string false "Filter by customer"
// @Success 200 {object} response.APIResponse
// @Router /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var req request.DocumentFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	params := &repository.QuoteFilterParams{
		Pagination: pageParams(&req.ListQuery),
		Search:     req.Search,
		CustomerID: optionalUUID(req.CustomerID),
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		status, err := enum.ParseQuoteStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid quote status")
			return
		}
		params.Status = &status
	}

	result, err := h.quoteService.ListQuotes(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Quotes retrieved successfully", result)
}

// Create handles creating a priced quote
// @Summary Create Quote
// @Tags quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateQuoteRequest true "Quote"
// @Success 201 {object} response.APIResponse
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), &service.CreateQuoteInput{
		CreatedByID:   userID,
		CustomerID:    req.CustomerID,
		Title:         req.Title,
		Items:         req.Items,
		MarginPercent: req.MarginPercent,
		ValidUntil:    req.ValidUntil,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quote created successfully", quote)
}

// Preview prices line items without saving a quote
// @Summary Preview Totals
// @Tags quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.PreviewTotalsRequest true "Line items"
// @Success 200 {object} response.APIResponse
// @Router /quotes/preview [post]
func (h *QuoteHandler) Preview(c *gin.Context) {
	var req request.PreviewTotalsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.quoteService.PreviewTotals(c.Request.Context(), req.Items, req.MarginPercent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals calculated successfully", result)
}

// Get handles getting a quote with its lines
// @Summary Get Quote
// @Tags quotes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "quote")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetQuote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote retrieved successfully", quote)
}

// Update handles editing a quote. Sending items replaces all of its lines.
// @Summary Update Quote
// @Tags quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body request.UpdateQuoteRequest true "Quote fields"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "quote")
	if !ok {
		return
	}

	var req request.UpdateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), &service.UpdateQuoteInput{
		ID:            id,
		CustomerID:    req.CustomerID,
		Title:         req.Title,
		Items:         req.Items,
		MarginPercent: req.MarginPercent,
		ValidUntil:    req.ValidUntil,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote updated successfully", quote)
}

// Recalculate re-prices a quote against the current catalog
// @Summary Recalculate Quote
// @Tags quotes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id}/recalculate [post]
func (h *QuoteHandler) Recalculate(c *gin.Context) {
	id, ok := parseID(c, "id", "quote")
	if !ok {
		return
	}

	quote, err := h.quoteService.RecalculateQuote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote recalculated successfully", quote)
}

// UpdateStatus accepts, declines or reopens a quote
// @Summary Update Quote Status
// @Tags quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body request.QuoteStatusRequest true "New status"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id}/status [patch]
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "quote")
	if !ok {
		return
	}

	var req request.QuoteStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseQuoteStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Invalid quote status")
		return
	}

	quote, err := h.quoteService.UpdateQuoteStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote status updated successfully", quote)
}

// Convert turns an accepted quote into a job
// @Summary Convert Quote to Job
// @Tags quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body request.ConvertQuoteRequest false "Job due date"
// @Success 201 {object} response.APIResponse
// @Router /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "quote")
	if !ok {
		return
	}

	var req request.ConvertQuoteRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	job, err := h.quoteService.ConvertToJob(c.Request.Context(), id, userID, req.DueDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quote converted to job successfully", job)
}

// PDF renders the quote as a PDF download
// @Summary Download Quote PDF
// @Tags quotes
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Quote ID"
// @Success 200 {file} binary
// @Router /quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "id", "quote")
	if !ok {
		return
	}

	data, filename, err := h.quoteService.QuotePDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, pdfContentType, filename, data)
}

// Delete handles deleting a quote
// @Summary Delete Quote
// @Tags quotes
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "quote")
	if !ok {
		return
	}

	if err := h.quoteService.DeleteQuote(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote deleted successfully", nil)
}
