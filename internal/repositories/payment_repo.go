package repositories

import (
	"shopsite/internal/models"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	// Create persists a new payment. Returns ErrConflict when the order
	// already has a non-failed payment, even under concurrent initiation.
	Create(payment *models.Payment) error
	GetByReference(reference string) (*models.Payment, error)
	// GetActiveByOrderID returns the order's pending or successful payment,
	// if one exists. Failed payments do not count against the at-most-one
	// active payment invariant.
	GetActiveByOrderID(orderID string) (*models.Payment, error)
	// ConfirmSuccess marks the payment success and moves its order from
	// CREATED to PROCESSING in one transaction. It reports whether the
	// update was applied; false means the payment was already confirmed,
	// which callers treat as an idempotent no-op. Returns ErrConflict, with
	// the payment untouched, when the order has already left CREATED.
	ConfirmSuccess(payment *models.Payment) (bool, error)
	// MarkFailed fails a pending payment. Failing a payment that already
	// succeeded is a no-op; payment state never moves backwards.
	MarkFailed(reference string) error
}
