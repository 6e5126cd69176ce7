package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// invoiceFilter binds list parameters shared by List and Export. The end date
// is inclusive of the whole day.
func invoiceFilter(c *gin.Context) (*repository.InvoiceFilterParams, bool) {
	var req request.InvoiceFilterRequest
	if !bindQuery(c, &req) {
		return nil, false
	}

	params := &repository.InvoiceFilterParams{
		Pagination: pageParams(&req.ListQuery),
		Search:     req.Search,
		CustomerID: optionalUUID(req.CustomerID),
		StartDate:  optionalDate(req.StartDate),
		Overdue:    req.Overdue,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if end := optionalDate(req.EndDate); end != nil {
		endOfDay := end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		params.EndDate = &endOfDay
	}
	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		response.BadRequest(c, "end_date must not be before start_date")
		return nil, false
	}
	if req.Status != "" {
		status, err := enum.ParseInvoiceStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid invoice status")
			return nil, false
		}
		params.Status = &status
	}
	return params, true
}

// List handles listing invoices
// @Summary List Invoices
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param status query string false "unpaid, paid or void"
// @Param start_date query string false "Issued on or after (YYYY-MM-DD)"
// @Param end_date query string false "Issued on or before (YYYY-MM-DD)"
// @Param overdue query bool false "Only unpaid invoices past their due date"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	params, ok := invoiceFilter(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", result)
}

// Export downloads the filtered invoice list as a spreadsheet
// @Summary Export Invoices
// @Tags invoices
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	params, ok := invoiceFilter(c)
	if !ok {
		return
	}

	data, err := h.invoiceService.ExportInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, xlsxContentType, "invoices-"+time.Now().Format("20060102")+".xlsx", data)
}

// Get handles getting an invoice with its lines
// @Summary Get Invoice
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Update adjusts tax, discount, deposit and due date of an unpaid invoice
// @Summary Update Invoice
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body request.UpdateInvoiceRequest true "Adjustments"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.UpdateInvoiceInput{
		ID:                  id,
		TaxRatePercent:      req.TaxRatePercent,
		DiscountValue:       req.DiscountValue,
		TaxOnDiscountedBase: req.ApplyTaxToDiscount,
		Deposit:             req.Deposit,
		DueDate:             req.DueDate,
		Notes:               req.Notes,
	}
	if req.DiscountType != nil {
		dt := pricing.DiscountType(*req.DiscountType)
		input.DiscountType = &dt
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Pay records payment of an invoice
// @Summary Mark Invoice Paid
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body request.MarkPaidRequest false "Payment details"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.MarkPaidRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), &service.MarkPaidInput{
		ID:        id,
		Method:    req.Method,
		Reference: req.Reference,
		PaidAt:    req.PaidAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice marked as paid", invoice)
}

func (h *InvoiceHandler) Void(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice voided successfully", invoice)
}

// PDF renders the invoice as a PDF download
// @Summary Download Invoice PDF
// @Tags invoices
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	data, filename, err := h.invoiceService.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, pdfContentType, filename, data)
}

// Email sends the invoice PDF to the customer or to the given address
// @Summary Email Invoice
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body request.EmailInvoiceRequest false "Recipient"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/email [post]
func (h *InvoiceHandler) Email(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.EmailInvoiceRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	if err := h.invoiceService.EmailInvoice(c.Request.Context(), id, req.To); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice emailed successfully", nil)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}
