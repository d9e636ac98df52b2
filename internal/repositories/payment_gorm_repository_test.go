package repositories_test

import (
	"fmt"
	"testing"

	"shopsite/internal/models"
	"shopsite/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))
	return db
}

func seedOrderWithPayment(t *testing.T, db *gorm.DB, orderStatus models.OrderStatus, paymentStatus models.PaymentStatus) (*models.Order, *models.Payment) {
	t.Helper()
	order := &models.Order{
		ID:         "order-1",
		CustomerID: "cust-1",
		Status:     orderStatus,
	}
	require.NoError(t, db.Create(order).Error)
	payment := &models.Payment{
		ID:        "pay-1",
		OrderID:   order.ID,
		Reference: "order_order-1_1700000000",
		Amount:    100,
		Currency:  "KES",
		Status:    paymentStatus,
	}
	require.NoError(t, db.Create(payment).Error)
	return order, payment
}

func TestGORMPaymentRepository_ConfirmSuccess(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMPaymentRepository(db)
	order, payment := seedOrderWithPayment(t, db, models.OrderCreated, models.PaymentPending)

	applied, err := repo.ConfirmSuccess(payment)
	require.NoError(t, err)
	assert.True(t, applied)

	var gotPayment models.Payment
	require.NoError(t, db.First(&gotPayment, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentSuccess, gotPayment.Status)

	var gotOrder models.Order
	require.NoError(t, db.First(&gotOrder, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderProcessing, gotOrder.Status)

	// The guarded update makes a redelivery a clean no-op.
	applied, err = repo.ConfirmSuccess(payment)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestGORMPaymentRepository_ConfirmSuccess_OrderCancelled(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMPaymentRepository(db)

	// The order was cancelled between the checkout page and webhook
	// delivery. The whole confirmation must roll back: the payment stays
	// pending instead of going success against a dead order.
	order, payment := seedOrderWithPayment(t, db, models.OrderCancelled, models.PaymentPending)

	applied, err := repo.ConfirmSuccess(payment)
	assert.ErrorIs(t, err, repositories.ErrConflict)
	assert.False(t, applied)

	var gotPayment models.Payment
	require.NoError(t, db.First(&gotPayment, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentPending, gotPayment.Status)

	var gotOrder models.Order
	require.NoError(t, db.First(&gotOrder, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderCancelled, gotOrder.Status)
}

func TestGORMPaymentRepository_MarkFailed(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMPaymentRepository(db)
	_, payment := seedOrderWithPayment(t, db, models.OrderCreated, models.PaymentPending)

	require.NoError(t, repo.MarkFailed(payment.Reference))

	var got models.Payment
	require.NoError(t, db.First(&got, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentFailed, got.Status)
}

func TestGORMPaymentRepository_MarkFailed_DoesNotDemoteSuccess(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMPaymentRepository(db)

	// An out-of-order failure notice delivered after charge.success must not
	// move the payment backwards.
	_, payment := seedOrderWithPayment(t, db, models.OrderProcessing, models.PaymentSuccess)

	require.NoError(t, repo.MarkFailed(payment.Reference))

	var got models.Payment
	require.NoError(t, db.First(&got, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentSuccess, got.Status)
}

func TestGORMPaymentRepository_MarkFailed_UnknownReference(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMPaymentRepository(db)

	err := repo.MarkFailed("order_nope_1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMPaymentRepository_Create_SecondActivePaymentRejected(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMPaymentRepository(db)
	order, _ := seedOrderWithPayment(t, db, models.OrderCreated, models.PaymentPending)

	// Even if two initiations race past the read check, the partial unique
	// index allows only one non-failed payment per order.
	err := repo.Create(&models.Payment{
		OrderID:   order.ID,
		Reference: "order_order-1_1700000001",
		Amount:    100,
		Currency:  "KES",
		Status:    models.PaymentPending,
	})
	assert.ErrorIs(t, err, repositories.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGORMPaymentRepository_Create_AllowedAfterFailure(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMPaymentRepository(db)
	order, payment := seedOrderWithPayment(t, db, models.OrderCreated, models.PaymentPending)

	require.NoError(t, repo.MarkFailed(payment.Reference))

	// A failed attempt does not block a fresh one.
	require.NoError(t, repo.Create(&models.Payment{
		OrderID:   order.ID,
		Reference: "order_order-1_1700000002",
		Amount:    100,
		Currency:  "KES",
		Status:    models.PaymentPending,
	}))
}
