package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
)

// MaterialHandler handles material catalog and stock HTTP requests
type MaterialHandler struct {
	materialService *service.MaterialService
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(materialService *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

func materialInput(req *request.MaterialRequest) *service.MaterialInput {
	return &service.MaterialInput{
		Name:           req.Name,
		SKU:            req.SKU,
		Unit:           req.Unit,
		VendorID:       req.VendorID,
		PurchasePrice:  req.PurchasePrice,
		SellingPrice:   req.SellingPrice,
		QuantityOnHand: req.QuantityOnHand,
		ReorderLevel:   req.ReorderLevel,
		Notes:          req.Notes,
	}
}

// List handles listing materials
// @Summary List Materials
// @Tags materials
// @Security BearerAuth
// @Produce json
// @Param vendor_id query string false "Filter by vendor"
// @Param low_stock query bool false "Only materials at or below their reorder level"
// @Success 200 {object} response.APIResponse
// @Router /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	var req request.MaterialFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.materialService.ListMaterials(c.Request.Context(), &repository.MaterialFilterParams{
		Pagination: pageParams(&req.ListQuery),
		Search:     req.Search,
		VendorID:   optionalUUID(req.VendorID),
		LowStock:   req.LowStock,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Materials retrieved successfully", result)
}

// LowStock lists every material at or below its reorder level
// @Summary Low Stock Materials
// @Tags materials
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /materials/low-stock [get]
func (h *MaterialHandler) LowStock(c *gin.Context) {
	materials, err := h.materialService.GetLowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock materials retrieved successfully", materials)
}

// Create handles creating a material
// @Summary Create Material
// @Tags materials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.MaterialRequest true "Material"
// @Success 201 {object} response.APIResponse
// @Router /materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req request.MaterialRequest
	if !bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.CreateMaterial(c.Request.Context(), materialInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Material created successfully", material)
}

// Get handles getting a material by ID
// @Summary Get Material
// @Tags materials
// @Security BearerAuth
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.APIResponse
// @Router /materials/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "material")
	if !ok {
		return
	}

	material, err := h.materialService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Material retrieved successfully", material)
}

// Update handles updating a material
// @Summary Update Material
// @Tags materials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param request body request.MaterialRequest true "Material fields"
// @Success 200 {object} response.APIResponse
// @Router /materials/{id} [put]
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "material")
	if !ok {
		return
	}

	var req request.MaterialRequest
	if !bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.UpdateMaterial(c.Request.Context(), id, materialInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Material updated successfully", material)
}

// Delete handles deleting a material
// @Summary Delete Material
// @Tags materials
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 200 {object} response.APIResponse
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "material")
	if !ok {
		return
	}

	if err := h.materialService.DeleteMaterial(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Material deleted successfully", nil)
}
