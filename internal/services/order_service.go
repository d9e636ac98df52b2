package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"shopsite/internal/models"
	"shopsite/internal/repositories"
	"shopsite/pkg/paystack"

	"github.com/google/uuid"
)

// Notification event types published to the notification queue.
const (
	EventOrderCreated     = "order.created"
	EventPaymentConfirmed = "payment.confirmed"
	EventOrderShipped     = "order.shipped"
)

// Webhook event names sent by the payment gateway.
const (
	webhookChargeSuccess = "charge.success"
	webhookPaymentFailed = "invoice.payment_failed"
)

const paymentCurrency = "KES"

// OrderService owns the order lifecycle: checkout, payment initiation and
// confirmation, fulfilment transitions, and cancellation. Status moves only
// along the transition table in models; every inventory movement shares a
// transaction with the status change that caused it.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	paymentRepo  repositories.PaymentRepository
	productRepo  repositories.ProductRepository
	cartRepo     repositories.CartRepository
	customerRepo repositories.CustomerRepository
	gateway      PaymentGateway
	cache        Cache
	publisher    NotificationPublisher
}

// NewOrderService creates a new OrderService. The cache and publisher may be
// nil; their side effects are then skipped.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentRepository,
	productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository,
	customerRepo repositories.CustomerRepository,
	gateway PaymentGateway,
	cache Cache,
	publisher NotificationPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		gateway:      gateway,
		cache:        cache,
		publisher:    publisher,
	}
}

// GetAllOrders retrieves all orders (staff listing).
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersForCustomer retrieves the customer's own orders.
func (s *OrderService) GetOrdersForCustomer(customerID string) ([]models.Order, error) {
	return s.orderRepo.GetByCustomerID(customerID)
}

// GetOrderByID retrieves a single order. When customerID is non-empty the
// order must belong to that customer; a foreign order reads as not found.
func (s *OrderService) GetOrderByID(orderID, customerID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if customerID != "" && order.CustomerID != customerID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return order, nil
}

// CreateOrder turns the customer's cart into an order. Unit prices are
// snapshotted from the live catalog, stock is decremented in the same
// transaction that persists the order, and the cart is cleared. Fails with
// ErrEmptyCart on an empty cart and ErrInsufficientStock when any item's
// quantity exceeds available stock.
func (s *OrderService) CreateOrder(ctx context.Context, customerID, shippingAddress, billingAddress string) (*models.Order, error) {
	cart, err := s.cartRepo.GetByCustomerID(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("customer %s: %w", customerID, ErrEmptyCart)
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		product, err := s.productRepo.GetByID(ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cart item: %w", err)
		}
		// Friendly pre-check; the guarded decrement below is authoritative
		// under concurrent checkouts.
		if product.Stock < ci.Quantity {
			return nil, fmt.Errorf("product %s (requested %d, available %d): %w",
				product.Name, ci.Quantity, product.Stock, ErrInsufficientStock)
		}
		items = append(items, models.OrderItem{
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			Price:     product.Price, // Price at the time of order creation
		})
		totalAmount += product.Price * float64(ci.Quantity)
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		Items:           items,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		TotalAmount:     totalAmount,
		Status:          models.OrderCreated,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.orderRepo.CreateWithStock(order); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(cart.ID); err != nil {
		log.Printf("Warning: failed to clear cart %s after checkout: %v", cart.ID, err)
	}

	// Stock changed, so cached product details are stale.
	for _, item := range order.Items {
		s.invalidateProduct(ctx, item.ProductID)
	}

	s.publish(EventOrderCreated, order.ID)

	return order, nil
}

// CheckoutSession is the gateway redirect handle returned by InitiatePayment.
type CheckoutSession struct {
	CheckoutURL string  `json:"checkout_url"`
	Reference   string  `json:"reference"`
	PaymentID   string  `json:"payment_id"`
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
}

// InitiatePayment starts a gateway transaction for a CREATED order. The
// amount comes from the snapshotted line items, and the resulting pending
// Payment is the order's single active payment; initiating twice fails with
// ErrInvalidState.
func (s *OrderService) InitiatePayment(ctx context.Context, orderID, customerID string) (*CheckoutSession, error) {
	order, err := s.GetOrderByID(orderID, customerID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderCreated {
		return nil, fmt.Errorf("order %s is %s, payment requires %s: %w",
			order.ID, order.Status, models.OrderCreated, ErrInvalidState)
	}

	if _, err := s.paymentRepo.GetActiveByOrderID(order.ID); err == nil {
		return nil, fmt.Errorf("payment already in progress for order %s: %w", order.ID, ErrInvalidState)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	// Total from the snapshotted items, not the live catalog.
	var amount float64
	for _, item := range order.Items {
		amount += item.Price * float64(item.Quantity)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("invalid order amount %.2f for order %s", amount, order.ID)
	}

	customer, err := s.customerRepo.GetByID(order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve order customer: %w", err)
	}

	init, err := s.gateway.InitializeTransaction(ctx, paystack.InitRequest{
		Amount:    amount,
		Currency:  paymentCurrency,
		Email:     customer.Email,
		Reference: fmt.Sprintf("order_%s_%d", order.ID, time.Now().Unix()),
		Metadata: map[string]string{
			"order_id":    order.ID,
			"customer_id": order.CustomerID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("payment initialization failed: %w", err)
	}

	payment := &models.Payment{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		Reference: init.Reference,
		Amount:    amount,
		Currency:  paymentCurrency,
		Status:    models.PaymentPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// A concurrent initiation won the database race.
			return nil, fmt.Errorf("payment already in progress for order %s: %w", order.ID, ErrInvalidState)
		}
		return nil, err
	}

	return &CheckoutSession{
		CheckoutURL: init.AuthorizationURL,
		Reference:   init.Reference,
		PaymentID:   payment.ID,
		OrderID:     order.ID,
		Amount:      amount,
	}, nil
}

// webhookPayload is the signed JSON body delivered by the gateway.
type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string  `json:"reference"`
		Status    string  `json:"status"`
		Amount    float64 `json:"amount"`
	} `json:"data"`
}

// ConfirmPayment processes a gateway webhook delivery. The signature is
// verified before the payload is trusted; a bad signature mutates nothing.
// Confirmation is idempotent: the gateway may redeliver, and only the first
// successful application moves the order to PROCESSING, invalidates the
// customer's cached entries, and emits the confirmation email event.
func (s *OrderService) ConfirmPayment(ctx context.Context, body []byte, signature string) error {
	if s.gateway == nil || !s.gateway.VerifySignature(body, signature) {
		log.Printf("Rejected webhook delivery with bad signature")
		return ErrSignatureInvalid
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid webhook payload: %w", err)
	}
	if payload.Data.Reference == "" {
		return fmt.Errorf("webhook payload missing transaction reference")
	}

	switch payload.Event {
	case webhookChargeSuccess:
		return s.applyChargeSuccess(ctx, payload.Data.Reference)
	case webhookPaymentFailed:
		return s.paymentRepo.MarkFailed(payload.Data.Reference)
	default:
		return fmt.Errorf("unrecognized webhook event %q", payload.Event)
	}
}

func (s *OrderService) applyChargeSuccess(ctx context.Context, reference string) error {
	payment, err := s.paymentRepo.GetByReference(reference)
	if err != nil {
		return err
	}

	if payment.Status == models.PaymentSuccess {
		// Redelivery of an already processed confirmation.
		log.Printf("Payment %s already confirmed, skipping", reference)
		return nil
	}

	applied, err := s.paymentRepo.ConfirmSuccess(payment)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// The order was cancelled (or otherwise left CREATED) before the
			// charge arrived. The payment stays pending and nothing is
			// confirmed; the orphaned charge needs manual reconciliation.
			log.Printf("Charge %s arrived for order %s after it left %s", reference, payment.OrderID, models.OrderCreated)
			return fmt.Errorf("order %s can no longer accept payment %s: %w", payment.OrderID, reference, ErrInvalidState)
		}
		return err
	}
	if !applied {
		// Lost the race against a concurrent delivery; the winner did the
		// side effects.
		return nil
	}

	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		log.Printf("Warning: confirmed payment %s but failed to load order %s: %v", reference, payment.OrderID, err)
		return nil
	}

	s.invalidateCustomer(ctx, order.CustomerID)
	s.publish(EventPaymentConfirmed, order.ID)
	return nil
}

// MarkShipped moves a PROCESSING order to SHIPPED (staff action) and emits
// the shipping notification event.
func (s *OrderService) MarkShipped(ctx context.Context, orderID string) error {
	if err := s.transition(ctx, orderID, models.OrderProcessing, models.OrderShipped); err != nil {
		return err
	}
	s.publish(EventOrderShipped, orderID)
	return nil
}

// MarkCompleted moves a SHIPPED order to COMPLETED (staff action).
func (s *OrderService) MarkCompleted(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, models.OrderShipped, models.OrderCompleted)
}

// transition performs a single admin state-machine step. The order must
// currently be in the expected predecessor state.
func (s *OrderService) transition(ctx context.Context, orderID string, from, to models.OrderStatus) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != from {
		return fmt.Errorf("order %s is %s, expected %s: %w", orderID, order.Status, from, ErrInvalidState)
	}
	if err := s.orderRepo.UpdateStatusFrom(orderID, from, to); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return fmt.Errorf("order %s changed state concurrently: %w", orderID, ErrInvalidState)
		}
		return err
	}
	s.invalidateCustomer(ctx, order.CustomerID)
	return nil
}

// CancelOrder cancels an order that has not entered fulfilment (PENDING or
// CREATED only) and restores the reserved inventory in the same transaction.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, customerID string) error {
	order, err := s.GetOrderByID(orderID, customerID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransition(models.OrderCancelled) {
		return fmt.Errorf("order %s is %s and can no longer be cancelled: %w", orderID, order.Status, ErrInvalidState)
	}

	if err := s.orderRepo.CancelWithRestock(order); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return fmt.Errorf("order %s changed state concurrently: %w", orderID, ErrInvalidState)
		}
		return err
	}

	for _, item := range order.Items {
		s.invalidateProduct(ctx, item.ProductID)
	}
	s.invalidateCustomer(ctx, order.CustomerID)
	return nil
}

// publish emits a fire-and-forget notification event. Publish failures are
// logged, never surfaced to the caller.
func (s *OrderService) publish(eventType, orderID string) {
	if s.publisher == nil {
		log.Println("Notification publisher is not initialized. Skipping event publication.")
		return
	}
	if err := s.publisher.PublishNotification(eventType, orderID); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, orderID, err)
	}
}

func (s *OrderService) invalidateProduct(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
		log.Printf("Warning: failed to invalidate product cache for %s: %v", productID, err)
	}
}

func (s *OrderService) invalidateCustomer(ctx context.Context, customerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCustomer(ctx, customerID); err != nil {
		log.Printf("Warning: failed to invalidate customer cache for %s: %v", customerID, err)
	}
}
