package handlers

import (
	"errors"
	"log"

	"shopsite/internal/services"
	"shopsite/pkg/paystack"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives payment gateway callbacks. The route is public;
// trust comes from the HMAC signature on the body, not from auth.
type WebhookHandler struct {
	service *services.OrderService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service *services.OrderService) *WebhookHandler {
	return &WebhookHandler{
		service: service,
	}
}

// RegisterRoutes registers the webhook endpoint with the Fiber app.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/payments/webhook", h.HandlePaystackWebhook)
}

// HandlePaystackWebhook verifies and applies a gateway delivery. The raw
// body is passed through untouched so the signature check sees exactly the
// bytes the gateway signed. Redeliveries are acknowledged with 200 so the
// gateway stops retrying.
func (h *WebhookHandler) HandlePaystackWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get(paystack.SignatureHeader)

	if err := h.service.ConfirmPayment(c.Context(), body, signature); err != nil {
		log.Printf("Webhook processing failed: %v", err)
		switch {
		case errors.Is(err, services.ErrSignatureInvalid):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid signature",
			})
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Payment not found",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Webhook rejected",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Webhook received successfully",
	})
}
