package repositories

import (
	"errors"
	"fmt"

	"shopsite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their line items.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID with its line items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByCustomerID retrieves all orders belonging to a customer.
func (r *GORMOrderRepository) GetByCustomerID(customerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("customer_id = ?", customerID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for customer %s: %w", customerID, err)
	}
	return orders, nil
}

// CreateWithStock persists the order and decrements product stock atomically.
// Each decrement is guarded with "stock >= quantity" so concurrent checkouts
// cannot oversell; the whole transaction rolls back on the first failure.
func (r *GORMOrderRepository) CreateWithStock(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrInsufficientStock)
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	return err
}

// UpdateStatusFrom performs a compare-and-swap on the order status.
func (r *GORMOrderRepository) UpdateStatusFrom(id string, from, to models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrConflict)
	}
	return nil
}

// CancelWithRestock sets the order CANCELLED and restores line item stock in
// one transaction. The status swap is guarded on the order's current status
// so a concurrently confirmed payment cannot be cancelled away.
func (r *GORMOrderRepository) CancelWithRestock(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", models.OrderCancelled)
		if res.Error != nil {
			return fmt.Errorf("failed to cancel order %s: %w", order.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %s is no longer %s: %w", order.ID, order.Status, ErrConflict)
		}
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restock product %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
}
