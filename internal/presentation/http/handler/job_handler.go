package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
)

// JobHandler handles job HTTP requests
type JobHandler struct {
	jobService     *service.JobService
	invoiceService *service.InvoiceService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService, invoiceService *service.InvoiceService) *JobHandler {
	return &JobHandler{jobService: jobService, invoiceService: invoiceService}
}

// jobFilter binds list parameters shared by List and Export
func jobFilter(c *gin.Context) (*repository.JobFilterParams, bool) {
	var req request.DocumentFilterRequest
	if !bindQuery(c, &req) {
		return nil, false
	}

	params := &repository.JobFilterParams{
		Pagination: pageParams(&req.ListQuery),
		Search:     req.Search,
		CustomerID: optionalUUID(req.CustomerID),
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		status, err := enum.ParseJobStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid job status")
			return nil, false
		}
		params.Status = &status
	}
	return params, true
}

// List handles listing jobs
// @Summary List Jobs
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param status query string false "active, completed, invoiced or cancelled"
// @Param customer_id query string false "Filter by customer"
// @Success 200 {object} response.APIResponse
// @Router /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	params, ok := jobFilter(c)
	if !ok {
		return
	}

	result, err := h.jobService.ListJobs(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Jobs retrieved successfully", result)
}

// Export downloads the filtered job list as a spreadsheet
// @Summary Export Jobs
// @Tags jobs
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /jobs/export [get]
func (h *JobHandler) Export(c *gin.Context) {
	params, ok := jobFilter(c)
	if !ok {
		return
	}

	data, err := h.jobService.ExportJobs(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, xlsxContentType, "jobs-"+time.Now().Format("20060102")+".xlsx", data)
}

// Create handles creating a job directly, without a quote
// @Summary Create Job
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateJobRequest true "Job"
// @Success 201 {object} response.APIResponse
// @Router /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), &service.CreateJobInput{
		CreatedByID:   userID,
		CustomerID:    req.CustomerID,
		Title:         req.Title,
		Items:         req.Items,
		MarginPercent: req.MarginPercent,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Job created successfully", job)
}

// Get handles getting a job with its lines
// @Summary Get Job
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.APIResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job retrieved successfully", job)
}

// Update handles editing an active job
// @Summary Update Job
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body request.UpdateJobRequest true "Job fields"
// @Success 200 {object} response.APIResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "job")
	if !ok {
		return
	}

	var req request.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), &service.UpdateJobInput{
		ID:            id,
		CustomerID:    req.CustomerID,
		Title:         req.Title,
		Items:         req.Items,
		MarginPercent: req.MarginPercent,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job updated successfully", job)
}

// Recalculate re-prices a job against the current catalog
func (h *JobHandler) Recalculate(c *gin.Context) {
	id, ok := parseID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.jobService.RecalculateJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job recalculated successfully", job)
}

// Complete marks an active job done and draws its materials from stock
func (h *JobHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.jobService.CompleteJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job completed successfully", job)
}

func (h *JobHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.jobService.CancelJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job cancelled successfully", job)
}

// GenerateInvoice bills a completed job
// @Summary Generate Invoice
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 201 {object} response.APIResponse
// @Router /jobs/{id}/invoice [post]
func (h *JobHandler) GenerateInvoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "job")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GenerateFromJob(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice generated successfully", invoice)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "job")
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job deleted successfully", nil)
}
