package repositories

import (
	"errors"
	"fmt"

	"shopsite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db: db,
	}
}

// Create persists a new payment. The unique index on reference makes a
// duplicate gateway reference a hard failure, and the partial unique index
// on order_id (non-failed rows) makes a second active payment for the same
// order an ErrConflict even when two initiations race past the read check.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("payment for order %s: %w", payment.OrderID, ErrConflict)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByReference retrieves a payment by its gateway transaction reference.
func (r *GORMPaymentRepository) GetByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment with reference %s: %w", reference, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment by reference %s: %w", reference, err)
	}
	return &payment, nil
}

// GetActiveByOrderID retrieves the order's pending or successful payment.
func (r *GORMPaymentRepository) GetActiveByOrderID(orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.
		Where("order_id = ? AND status IN ?", orderID, []models.PaymentStatus{models.PaymentPending, models.PaymentSuccess}).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("active payment for order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active payment for order %s: %w", orderID, err)
	}
	return &payment, nil
}

// ConfirmSuccess flips the payment to success and the order to PROCESSING
// atomically. Both updates are guarded on the current status, so a webhook
// redelivery racing the first confirmation matches zero rows and is applied
// exactly once. When the order itself has left CREATED the transaction rolls
// back and ErrConflict is returned; the payment is left pending.
func (r *GORMPaymentRepository) ConfirmSuccess(payment *models.Payment) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status <> ?", payment.ID, models.PaymentSuccess).
			Update("status", models.PaymentSuccess)
		if res.Error != nil {
			return fmt.Errorf("failed to confirm payment %s: %w", payment.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Already confirmed by an earlier delivery.
			return nil
		}
		orderRes := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", payment.OrderID, models.OrderCreated).
			Update("status", models.OrderProcessing)
		if orderRes.Error != nil {
			return fmt.Errorf("failed to move order %s to processing: %w", payment.OrderID, orderRes.Error)
		}
		if orderRes.RowsAffected == 0 {
			// The order left CREATED (e.g. cancelled) before the charge
			// arrived. Roll the whole confirmation back so the payment stays
			// pending and the mismatch surfaces instead of confirming against
			// a dead order.
			return fmt.Errorf("order %s is no longer %s: %w", payment.OrderID, models.OrderCreated, ErrConflict)
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// MarkFailed marks the payment identified by the gateway reference as failed.
// Only pending payments can fail; a failure notice delivered out of order
// after a successful charge is a no-op so payment state stays monotonic.
func (r *GORMPaymentRepository) MarkFailed(reference string) error {
	res := r.db.Model(&models.Payment{}).
		Where("reference = ? AND status = ?", reference, models.PaymentPending).
		Update("status", models.PaymentFailed)
	if res.Error != nil {
		return fmt.Errorf("failed to mark payment %s failed: %w", reference, res.Error)
	}
	if res.RowsAffected == 0 {
		var payment models.Payment
		if err := r.db.First(&payment, "reference = ?", reference).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("payment with reference %s: %w", reference, ErrNotFound)
			}
			return fmt.Errorf("failed to get payment by reference %s: %w", reference, err)
		}
		// Already settled.
		return nil
	}
	return nil
}
