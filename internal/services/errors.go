package services

import (
	"errors"

	"shopsite/internal/repositories"
)

// Structured failure kinds surfaced by the services. Handlers translate
// these into HTTP statuses with errors.Is; none are retried internally.
var (
	// ErrInvalidState is returned when an order status transition is not
	// permitted from the order's current status.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrSignatureInvalid is returned when a webhook payload fails HMAC
	// verification. No state is mutated in that case.
	ErrSignatureInvalid = errors.New("invalid webhook signature")

	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotFound and ErrInsufficientStock originate in the repository
	// layer and pass through unchanged.
	ErrNotFound          = repositories.ErrNotFound
	ErrInsufficientStock = repositories.ErrInsufficientStock
)
