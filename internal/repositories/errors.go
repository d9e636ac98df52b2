package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Services wrap
// these with context; handlers match them with errors.Is.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned when a guarded stock decrement would
	// take a product's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict is returned when a compare-and-swap status update matched
	// no rows, meaning the record changed state under us.
	ErrConflict = errors.New("state conflict")
)
