package services

import (
	"context"

	"shopsite/internal/models"
	"shopsite/pkg/paystack"
)

// NotificationPublisher dispatches fire-and-forget notification events.
// Implemented by pkg/rabbitmq; the email worker consumes the queue.
type NotificationPublisher interface {
	PublishNotification(eventType, orderID string) error
}

// Cache is the response cache collaborator. A nil lookup result with a nil
// error is a cache miss.
type Cache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	InvalidateProduct(ctx context.Context, id string) error
	InvalidateCustomer(ctx context.Context, customerID string) error
}

// PaymentGateway abstracts the payment provider: starting a transaction and
// verifying inbound webhook signatures. Implemented by pkg/paystack.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitRequest) (*paystack.InitResponse, error)
	VerifySignature(body []byte, signature string) bool
}
