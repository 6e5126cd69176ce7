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

// PurchaseOrderHandler handles purchase order HTTP requests
type PurchaseOrderHandler struct {
	purchaseOrderService *service.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(purchaseOrderService *service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseOrderService: purchaseOrderService}
}

func purchaseOrderItems(items []request.PurchaseOrderItemRequest) []service.PurchaseOrderItemInput {
	if items == nil {
		return nil
	}
	out := make([]service.PurchaseOrderItemInput, len(items))
	for i, item := range items {
		out[i] = service.PurchaseOrderItemInput{
			MaterialID:  item.MaterialID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		}
	}
	return out
}

// List handles listing purchase orders
// @Summary List Purchase Orders
// @Tags purchase-orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "draft, ordered, received or cancelled"
// @Param vendor_id query string false "Filter by vendor"
// @Success 200 {object} response.APIResponse
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var req request.PurchaseOrderFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	params := &repository.PurchaseOrderFilterParams{
		Pagination: pageParams(&req.ListQuery),
		Search:     req.Search,
		VendorID:   optionalUUID(req.VendorID),
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		status, err := enum.ParsePurchaseOrderStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid purchase order status")
			return
		}
		params.Status = &status
	}

	result, err := h.purchaseOrderService.ListPurchaseOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Purchase orders retrieved successfully", result)
}

// Create handles creating a draft purchase order
// @Summary Create Purchase Order
// @Tags purchase-orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreatePurchaseOrderRequest true "Purchase order"
// @Success 201 {object} response.APIResponse
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.purchaseOrderService.CreatePurchaseOrder(c.Request.Context(), &service.CreatePurchaseOrderInput{
		CreatedByID:    userID,
		VendorID:       req.VendorID,
		TaxRatePercent: req.TaxRatePercent,
		Notes:          req.Notes,
		Items:          purchaseOrderItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase order created successfully", po)
}

// Get handles getting a purchase order with its items
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase order")
	if !ok {
		return
	}

	po, err := h.purchaseOrderService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order retrieved successfully", po)
}

// Update handles editing a draft purchase order
// @Summary Update Purchase Order
// @Tags purchase-orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param request body request.UpdatePurchaseOrderRequest true "Purchase order fields"
// @Success 200 {object} response.APIResponse
// @Router /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase order")
	if !ok {
		return
	}

	var req request.UpdatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.purchaseOrderService.UpdatePurchaseOrder(c.Request.Context(), &service.UpdatePurchaseOrderInput{
		ID:             id,
		VendorID:       req.VendorID,
		TaxRatePercent: req.TaxRatePercent,
		Notes:          req.Notes,
		Items:          purchaseOrderItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order updated successfully", po)
}

// MarkOrdered records that a draft was sent to the vendor
func (h *PurchaseOrderHandler) MarkOrdered(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase order")
	if !ok {
		return
	}

	po, err := h.purchaseOrderService.MarkOrdered(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order marked as ordered", po)
}

// Receive adds the ordered quantities to stock, optionally adopting the
// order's unit costs as the materials' purchase prices
// @Summary Receive Purchase Order
// @Tags purchase-orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param request body request.ReceivePurchaseOrderRequest false "Receive options"
// @Success 200 {object} response.APIResponse
// @Router /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase order")
	if !ok {
		return
	}

	var req request.ReceivePurchaseOrderRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	po, err := h.purchaseOrderService.ReceivePurchaseOrder(c.Request.Context(), id, req.UpdatePrices)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order received successfully", po)
}

func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase order")
	if !ok {
		return
	}

	po, err := h.purchaseOrderService.CancelPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order cancelled successfully", po)
}

func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase order")
	if !ok {
		return
	}

	if err := h.purchaseOrderService.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order deleted successfully", nil)
}
