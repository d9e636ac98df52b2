package middleware

import (
	"log"
	"strings"

	"shopsite/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("customer_id", claims["customer_id"])
		c.Locals("email", claims["email"])
		c.Locals("is_staff", claims["is_staff"])

		// Continue to the next handler
		return c.Next()
	}
}

// StaffRequired restricts a route to staff accounts. It must run after
// AuthRequired, which populates the is_staff claim.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isStaff, ok := c.Locals("is_staff").(bool)
		if !ok || !isStaff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Staff access required",
			})
		}
		return c.Next()
	}
}

// CustomerID extracts the authenticated customer's ID from the context.
func CustomerID(c *fiber.Ctx) string {
	id, _ := c.Locals("customer_id").(string)
	return id
}

// IsStaff reports whether the authenticated account has staff rights.
func IsStaff(c *fiber.Ctx) bool {
	isStaff, _ := c.Locals("is_staff").(bool)
	return isStaff
}
