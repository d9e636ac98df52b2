package repositories

import (
	"shopsite/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// Mutating operations are transactional units: CreateWithStock and
// CancelWithRestock pair the status change with the matching inventory
// movement in one database transaction, and UpdateStatusFrom is a
// compare-and-swap so concurrent transitions cannot skip states.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByCustomerID(customerID string) ([]models.Order, error)
	// CreateWithStock persists the order and its items and decrements each
	// item's product stock in the same transaction. Returns
	// ErrInsufficientStock if any decrement would go negative.
	CreateWithStock(order *models.Order) error
	// UpdateStatusFrom moves the order from one status to another only if it
	// is still in the expected predecessor status. Returns ErrConflict when
	// the order is no longer in that status.
	UpdateStatusFrom(id string, from, to models.OrderStatus) error
	// CancelWithRestock marks the order CANCELLED and restores the reserved
	// stock of every line item in the same transaction.
	CancelWithRestock(order *models.Order) error
}
