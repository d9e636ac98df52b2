package handlers

import (
	"fmt"
	"log"

	"shopsite/internal/middleware"
	"shopsite/internal/models"
	"shopsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes and
// restocking are limited to staff.
func (h *ProductHandler) RegisterRoutes(public fiber.Router, staff fiber.Router) {
	publicRoutes := public.Group("/products")
	publicRoutes.Get("/", h.HandleGetProducts)
	publicRoutes.Get("/:id", h.HandleGetProductByID)

	staffRoutes := staff.Group("/products")
	staffRoutes.Post("/", h.HandleCreateProduct)
	staffRoutes.Put("/:id", h.HandleUpdateProduct)
	staffRoutes.Delete("/:id", h.HandleDeleteProduct)
	staffRoutes.Post("/:id/restock", h.HandleRestockProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product, served from the response
// cache when warm.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(c.Context(), productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product (staff only).
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product (staff only).
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")

	if err := h.service.UpdateProduct(c.Context(), &product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product (staff only).
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(c.Context(), productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return respondError(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", productID),
	})
}

// RestockRequest is the request body for adding inventory.
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleRestockProduct adds inventory to a product (staff only). The staff
// identity is logged for the audit trail.
func (h *ProductHandler) HandleRestockProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	var req RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Quantity must be a positive integer",
		})
	}

	if err := h.service.RestockProduct(c.Context(), productID, req.Quantity); err != nil {
		log.Printf("Error restocking product %s: %v", productID, err)
		return respondError(c, "Could not restock product", err)
	}

	log.Printf("Product %s restocked by %d (staff %s)", productID, req.Quantity, middleware.CustomerID(c))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s restocked by %d", productID, req.Quantity),
	})
}
