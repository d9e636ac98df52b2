package models

import "time"

// PaymentStatus is the closed set of payment states.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records one gateway transaction for an order. Reference is the
// gateway transaction reference; the unique index on it is what makes
// webhook confirmation idempotent under gateway redelivery. The partial
// unique index on OrderID enforces at most one non-failed payment per order
// at the database, closing the race between concurrent initiations.
type Payment struct {
	ID        string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string        `json:"order_id" gorm:"index;uniqueIndex:uniq_payments_active_order,where:status <> 'failed';type:varchar(36)"`
	Reference string        `json:"reference" gorm:"uniqueIndex;type:varchar(100)"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency" gorm:"type:varchar(3)"`
	Status    PaymentStatus `json:"status" gorm:"type:varchar(10)"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
