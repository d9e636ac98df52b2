package handlers

import (
	"log"

	"shopsite/internal/middleware"
	"shopsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated customer's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app. All routes
// require authentication.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:productId", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
}

// HandleGetCart returns the customer's open cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(middleware.CustomerID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(cart)
}

// AddItemRequest is the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds a product to the cart, merging with an existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id and a positive quantity are required",
		})
	}

	cart, err := h.service.AddItem(middleware.CustomerID(c), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding item to cart: %v", err)
		return respondError(c, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// UpdateItemRequest is the request body for changing a cart line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// HandleUpdateItem sets a cart line's quantity; zero removes the line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	cart, err := h.service.UpdateItem(middleware.CustomerID(c), c.Params("productId"), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item: %v", err)
		return respondError(c, "Could not update cart item", err)
	}
	return c.JSON(cart)
}

// HandleRemoveItem removes a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(middleware.CustomerID(c), c.Params("productId"))
	if err != nil {
		log.Printf("Error removing cart item: %v", err)
		return respondError(c, "Could not remove cart item", err)
	}
	return c.JSON(cart)
}
