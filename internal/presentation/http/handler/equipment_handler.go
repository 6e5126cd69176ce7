package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
)

// EquipmentHandler handles printer, press and add-on catalog requests
type EquipmentHandler struct {
	equipmentService *service.EquipmentService
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(equipmentService *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

func equipmentFilter(req *request.EquipmentFilterRequest) *repository.EquipmentFilterParams {
	return &repository.EquipmentFilterParams{
		Pagination: pageParams(&req.ListQuery),
		Search:     req.Search,
		Category:   req.Category,
		ActiveOnly: req.ActiveOnly,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
}

func equipmentInput(req *request.EquipmentRequest) *service.EquipmentInput {
	return &service.EquipmentInput{
		Name:         req.Name,
		Category:     req.Category,
		HourlyRate:   req.HourlyRate,
		FlatFee:      req.FlatFee,
		InkRates:     req.InkRates,
		UseSoftWhite: req.UseSoftWhite,
		Active:       req.Active,
		Notes:        req.Notes,
	}
}

func addOnInput(req *request.AddOnRequest) *service.AddOnInput {
	return &service.AddOnInput{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Active:      req.Active,
	}
}

// List handles listing equipment
// @Summary List Equipment
// @Tags equipment
// @Security BearerAuth
// @Produce json
// @Param category query string false "Filter by category"
// @Param active_only query bool false "Hide retired equipment"
// @Success 200 {object} response.APIResponse
// @Router /equipment [get]
func (h *EquipmentHandler) List(c *gin.Context) {
	var req request.EquipmentFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.equipmentService.ListEquipment(c.Request.Context(), equipmentFilter(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Equipment retrieved successfully", result)
}

// Create handles creating equipment with its hourly rate and ink rates
// @Summary Create Equipment
// @Tags equipment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.EquipmentRequest true "Equipment"
// @Success 201 {object} response.APIResponse
// @Router /equipment [post]
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req request.EquipmentRequest
	if !bindJSON(c, &req) {
		return
	}

	equipment, err := h.equipmentService.CreateEquipment(c.Request.Context(), equipmentInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Equipment created successfully", equipment)
}

// Get handles getting equipment by ID
// @Summary Get Equipment
// @Tags equipment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} response.APIResponse
// @Router /equipment/{id} [get]
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "equipment")
	if !ok {
		return
	}

	equipment, err := h.equipmentService.GetEquipment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Equipment retrieved successfully", equipment)
}

// Update handles updating equipment
// @Summary Update Equipment
// @Tags equipment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Equipment ID"
// @Param request body request.EquipmentRequest true "Equipment fields"
// @Success 200 {object} response.APIResponse
// @Router /equipment/{id} [put]
func (h *EquipmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "equipment")
	if !ok {
		return
	}

	var req request.EquipmentRequest
	if !bindJSON(c, &req) {
		return
	}

	equipment, err := h.equipmentService.UpdateEquipment(c.Request.Context(), id, equipmentInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Equipment updated successfully", equipment)
}

// Delete handles deleting equipment
// @Summary Delete Equipment
// @Tags equipment
// @Security BearerAuth
// @Param id path string true "Equipment ID"
// @Success 200 {object} response.APIResponse
// @Router /equipment/{id} [delete]
func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "equipment")
	if !ok {
		return
	}

	if err := h.equipmentService.DeleteEquipment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Equipment deleted successfully", nil)
}

// ListAddOns handles listing add-ons
// @Summary List Add-ons
// @Tags add-ons
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /addons [get]
func (h *EquipmentHandler) ListAddOns(c *gin.Context) {
	var req request.EquipmentFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.equipmentService.ListAddOns(c.Request.Context(), equipmentFilter(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Add-ons retrieved successfully", result)
}

// CreateAddOn handles creating an add-on
// @Summary Create Add-on
// @Tags add-ons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.AddOnRequest true "Add-on"
// @Success 201 {object} response.APIResponse
// @Router /addons [post]
func (h *EquipmentHandler) CreateAddOn(c *gin.Context) {
	var req request.AddOnRequest
	if !bindJSON(c, &req) {
		return
	}

	addOn, err := h.equipmentService.CreateAddOn(c.Request.Context(), addOnInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Add-on created successfully", addOn)
}

func (h *EquipmentHandler) GetAddOn(c *gin.Context) {
	id, ok := parseID(c, "id", "add-on")
	if !ok {
		return
	}

	addOn, err := h.equipmentService.GetAddOn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Add-on retrieved successfully", addOn)
}

func (h *EquipmentHandler) UpdateAddOn(c *gin.Context) {
	id, ok := parseID(c, "id", "add-on")
	if !ok {
		return
	}

	var req request.AddOnRequest
	if !bindJSON(c, &req) {
		return
	}

	addOn, err := h.equipmentService.UpdateAddOn(c.Request.Context(), id, addOnInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Add-on updated successfully", addOn)
}

func (h *EquipmentHandler) DeleteAddOn(c *gin.Context) {
	id, ok := parseID(c, "id", "add-on")
	if !ok {
		return
	}

	if err := h.equipmentService.DeleteAddOn(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Add-on deleted successfully", nil)
}
