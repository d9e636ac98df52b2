package repositories

import (
	"shopsite/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetByCustomerID returns the customer's open cart, creating an empty
	// one on first access.
	GetByCustomerID(customerID string) (*models.Cart, error)
	AddItem(cartID string, item models.CartItem) error
	UpdateItemQuantity(cartID, productID string, quantity int) error
	RemoveItem(cartID, productID string) error
	Clear(cartID string) error
}
