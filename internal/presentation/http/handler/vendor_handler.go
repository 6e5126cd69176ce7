package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
)

// VendorHandler handles supplier HTTP requests. Vendors share the contact
// service with customers.
type VendorHandler struct {
	customerService *service.CustomerService
}

func NewVendorHandler(customerService *service.CustomerService) *VendorHandler {
	return &VendorHandler{customerService: customerService}
}

func vendorInput(req *request.VendorRequest) *service.VendorInput {
	return &service.VendorInput{
		Name:          req.Name,
		ContactName:   req.ContactName,
		Email:         req.Email,
		Phone:         req.Phone,
		Website:       req.Website,
		Address:       req.Address,
		AccountNumber: req.AccountNumber,
		Notes:         req.Notes,
	}
}

func (h *VendorHandler) List(c *gin.Context) {
	var q request.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.customerService.ListVendors(c.Request.Context(), contactFilter(&q))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Vendors retrieved successfully", result)
}

func (h *VendorHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.VendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.customerService.CreateVendor(c.Request.Context(), userID, vendorInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Vendor created successfully", vendor)
}

func (h *VendorHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}

	vendor, err := h.customerService.GetVendor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor retrieved successfully", vendor)
}

func (h *VendorHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}

	var req request.VendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.customerService.UpdateVendor(c.Request.Context(), id, vendorInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor updated successfully", vendor)
}

func (h *VendorHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}

	if err := h.customerService.DeleteVendor(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor deleted successfully", nil)
}
