package repositories

import (
	"shopsite/internal/models"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByEmail(email string) (*models.Customer, error)
	GetByID(id string) (*models.Customer, error)
}
