package services

import (
	"fmt"

	"shopsite/internal/models"
	"shopsite/internal/repositories"
)

// CartService handles business logic for shopping carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the customer's open cart, creating it on first use.
func (s *CartService) GetCart(customerID string) (*models.Cart, error) {
	return s.cartRepo.GetByCustomerID(customerID)
}

// AddItem puts a product into the customer's cart. The product must exist;
// stock is only reserved at checkout, not here.
func (s *CartService) AddItem(customerID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.AddItem(cart.ID, models.CartItem{
		ProductID: productID,
		Quantity:  quantity,
	}); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByCustomerID(customerID)
}

// UpdateItem changes the quantity of a product in the cart. A quantity of
// zero removes the item.
func (s *CartService) UpdateItem(customerID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}

	cart, err := s.cartRepo.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		err = s.cartRepo.RemoveItem(cart.ID, productID)
	} else {
		err = s.cartRepo.UpdateItemQuantity(cart.ID, productID, quantity)
	}
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByCustomerID(customerID)
}

// RemoveItem takes a product out of the cart.
func (s *CartService) RemoveItem(customerID, productID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(cart.ID, productID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByCustomerID(customerID)
}
