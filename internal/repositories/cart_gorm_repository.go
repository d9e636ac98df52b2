package repositories

import (
	"errors"
	"fmt"

	"shopsite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByCustomerID returns the customer's open cart, creating one if absent.
func (r *GORMCartRepository) GetByCustomerID(customerID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").First(&cart, "customer_id = ?", customerID).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get cart for customer %s: %w", customerID, err)
	}

	cart = models.Cart{
		ID:         uuid.New().String(),
		CustomerID: customerID,
	}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart for customer %s: %w", customerID, err)
	}
	return &cart, nil
}

// AddItem adds a product to the cart, merging quantities when the product
// is already present.
func (r *GORMCartRepository) AddItem(cartID string, item models.CartItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.First(&existing, "cart_id = ? AND product_id = ?", cartID, item.ProductID).Error
		if err == nil {
			existing.Quantity += item.Quantity
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up cart item: %w", err)
		}
		item.CartID = cartID
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	})
}

// UpdateItemQuantity sets the quantity of a product already in the cart.
func (r *GORMCartRepository) UpdateItemQuantity(cartID, productID string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s in cart %s: %w", productID, cartID, ErrNotFound)
	}
	return nil
}

// RemoveItem removes a product from the cart.
func (r *GORMCartRepository) RemoveItem(cartID, productID string) error {
	res := r.db.Delete(&models.CartItem{}, "cart_id = ? AND product_id = ?", cartID, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s in cart %s: %w", productID, cartID, ErrNotFound)
	}
	return nil
}

// Clear removes every item from the cart. Clearing an already empty cart
// is not an error.
func (r *GORMCartRepository) Clear(cartID string) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
