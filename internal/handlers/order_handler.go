package handlers

import (
	"fmt"
	"log"

	"shopsite/internal/middleware"
	"shopsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders: checkout, payment
// initiation, cancellation, and the staff fulfilment transitions.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Customer routes operate on the
// caller's own orders; ship/complete and the full listing are staff-only.
func (h *OrderHandler) RegisterRoutes(customer fiber.Router, staff fiber.Router) {
	orderRoutes := customer.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/pay", h.HandleInitiatePayment)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)

	staffRoutes := staff.Group("/orders")
	staffRoutes.Get("/", h.HandleGetAllOrders)
	staffRoutes.Post("/:id/ship", h.HandleMarkShipped)
	staffRoutes.Post("/:id/complete", h.HandleMarkCompleted)
}

// CreateOrderRequest is the checkout request body.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	BillingAddress  string `json:"billing_address" validate:"required"`
}

// HandleCreateOrder checks out the customer's cart into a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "shipping_address and billing_address are required",
		})
	}

	order, err := h.service.CreateOrder(c.Context(), middleware.CustomerID(c), req.ShippingAddress, req.BillingAddress)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetMyOrders lists the authenticated customer's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersForCustomer(middleware.CustomerID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the customer's orders. Staff can read
// any order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	customerID := middleware.CustomerID(c)
	if middleware.IsStaff(c) {
		customerID = "" // no ownership restriction
	}

	order, err := h.service.GetOrderByID(orderID, customerID)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleInitiatePayment starts a gateway transaction for the order and
// returns the checkout redirect handle.
func (h *OrderHandler) HandleInitiatePayment(c *fiber.Ctx) error {
	orderID := c.Params("id")
	session, err := h.service.InitiatePayment(c.Context(), orderID, middleware.CustomerID(c))
	if err != nil {
		log.Printf("Error initiating payment for order %s: %v", orderID, err)
		return respondError(c, "Could not initiate payment", err)
	}
	return c.JSON(fiber.Map{
		"message":  "Payment initiated successfully",
		"checkout": session,
	})
}

// HandleCancelOrder cancels one of the customer's orders and restores the
// reserved stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.CancelOrder(c.Context(), orderID, middleware.CustomerID(c)); err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return respondError(c, "Could not cancel order", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s cancelled", orderID),
	})
}

// HandleGetAllOrders lists every order (staff only).
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleMarkShipped moves an order to SHIPPED (staff only).
func (h *OrderHandler) HandleMarkShipped(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.MarkShipped(c.Context(), orderID); err != nil {
		log.Printf("Error marking order %s shipped: %v", orderID, err)
		return respondError(c, "Could not mark order shipped", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s marked shipped", orderID),
	})
}

// HandleMarkCompleted moves an order to COMPLETED (staff only).
func (h *OrderHandler) HandleMarkCompleted(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.MarkCompleted(c.Context(), orderID); err != nil {
		log.Printf("Error marking order %s completed: %v", orderID, err)
		return respondError(c, "Could not mark order completed", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s marked completed", orderID),
	})
}
