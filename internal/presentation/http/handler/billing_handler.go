package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopfloor-api/pkg/stripe"
)

// maxWebhookBody caps a Stripe delivery; real events are a few KB
const maxWebhookBody = 1 << 20

// BillingHandler handles subscription billing HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// StripeWebhook receives Stripe subscription events. The signature is checked
// against the raw body, so nothing may parse it first.
// @Summary Stripe Webhook
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /billing/stripe/webhook [post]
func (h *BillingHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "Webhook payload too large")
			return
		}
		response.BadRequest(c, "Failed to read webhook payload")
		return
	}

	result, err := h.billingService.HandleWebhook(c.Request.Context(), payload, c.GetHeader(stripe.SignatureHeader))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Webhook processed", result)
}

// GetSubscription returns the current shop's subscription state
// @Summary Get Subscription
// @Tags billing
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /billing/subscription [get]
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	subscription, err := h.billingService.GetSubscription(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscription retrieved successfully", subscription)
}
