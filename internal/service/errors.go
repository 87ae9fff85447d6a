package service

import (
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	// ErrEmptyOrder is returned when an order is created without items
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrInvalidQuantity is returned when an item quantity is below 1
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")

	// ErrOrderForbidden is returned when an order does not belong to the
	// calling user
	ErrOrderForbidden = errors.New("order does not belong to this user")
)

// InsufficientStockError reports that a product cannot cover the requested
// quantity. During payment it also means the order was canceled.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
	Canceled    bool
}

func (e *InsufficientStockError) Error() string {
	if e.Canceled {
		return fmt.Sprintf("order canceled: insufficient stock for product %q: available %d, requested %d",
			e.ProductName, e.Available, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// InvalidStateError reports an operation attempted on an order outside the
// PENDING state
type InvalidStateError struct {
	Operation string
	Status    domain.OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("only pending orders can be %s: current status is %s", e.Operation, e.Status)
}
