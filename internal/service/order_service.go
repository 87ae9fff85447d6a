package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService is the order lifecycle engine. It enforces the
// PENDING -> PAID / PENDING -> CANCELED state machine and keeps order state
// consistent with product stock. Every mutating operation runs inside a
// single database transaction.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*domain.Order, error)
	ProcessPayment(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error)
}

type orderService struct {
	txs      database.TxRunner
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	txs database.TxRunner,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		txs:      txs,
		orders:   orders,
		products: products,
		users:    users,
		logger:   logger,
	}
}

// settlementError marks a payment failure that happened after all
// pre-checks passed. The safety net forces the order to CANCELED before
// such an error surfaces; pre-check failures never change state.
type settlementError struct {
	err error
}

func (e settlementError) Error() string { return e.err.Error() }
func (e settlementError) Unwrap() error { return e.err }

// CreateOrder validates the requested lines against the catalog and
// persists a PENDING order with its items as one atomic unit. Unit prices
// are snapshotted from the current product prices; stock is not touched.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, input := range items {
		if input.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    user.ID,
		UserName:  user.Name,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txs.WithTx(ctx, func(tx *sql.Tx) error {
		for _, input := range items {
			product, err := s.products.FindByIDTx(ctx, tx, input.ProductID)
			if err != nil {
				return err
			}

			if !product.HasStock(input.Quantity) {
				return &InsufficientStockError{
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   input.Quantity,
				}
			}

			order.AddItem(&domain.OrderItem{
				ID:          uuid.New(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    input.Quantity,
				UnitPrice:   product.Price,
			})
		}

		order.TotalAmount = order.ComputeTotal()

		return s.orders.CreateWithItems(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.TotalAmount.String()),
	)

	return order, nil
}

// ProcessPayment settles a PENDING order: it re-validates stock for every
// line against current counts, deducts the stock, and marks the order PAID,
// all inside one transaction. Any failure during settlement rolls the
// transaction back (no partial deduction can commit) and then forces the
// order to CANCELED, so payment is never left ambiguous.
func (s *orderService) ProcessPayment(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order

	err := s.txs.WithTx(ctx, func(tx *sql.Tx) error {
		var err error

		// Row lock on the order: a concurrent payment blocks here and then
		// observes the terminal status.
		order, err = s.orders.FindWithItemsByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if order.UserID != userID {
			return ErrOrderForbidden
		}

		if !order.IsPending() {
			return &InvalidStateError{Operation: "paid", Status: order.Status}
		}

		// Settlement phase: stock may have drifted since order creation,
		// so every line is re-checked against a transaction-scoped read.
		for _, item := range order.Items {
			product, err := s.products.FindByIDTx(ctx, tx, item.ProductID)
			if err != nil {
				return settlementError{err: err}
			}

			if !product.HasStock(item.Quantity) {
				return settlementError{err: &InsufficientStockError{
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   item.Quantity,
					Canceled:    true,
				}}
			}

			if err := s.products.DeductStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					return settlementError{err: &InsufficientStockError{
						ProductName: product.Name,
						Available:   product.Stock,
						Requested:   item.Quantity,
						Canceled:    true,
					}}
				}
				return settlementError{err: err}
			}
		}

		order.MarkPaid(time.Now().UTC())
		if err := s.orders.UpdateStatus(ctx, tx, order); err != nil {
			return settlementError{err: err}
		}

		return nil
	})

	if err != nil {
		var se settlementError
		if errors.As(err, &se) {
			s.forceCancel(ctx, order, se.err)
			return nil, se.err
		}
		return nil, err
	}

	s.logger.Info("Payment processed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return order, nil
}

// forceCancel persists the CANCELED status after a settlement failure was
// rolled back. The order must end up terminal even if payment blew up.
func (s *orderService) forceCancel(ctx context.Context, order *domain.Order, cause error) {
	s.logger.Error("Payment failed, canceling order",
		zap.String("order_id", order.ID.String()),
		zap.Error(cause),
	)

	order.Cancel(time.Now().UTC())

	err := s.txs.WithTx(ctx, func(tx *sql.Tx) error {
		return s.orders.UpdateStatus(ctx, tx, order)
	})
	if err != nil {
		s.logger.Error("Failed to persist order cancellation",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

// CancelOrder transitions a PENDING order to CANCELED. Creation never
// reserved stock, so cancellation has no stock side effects.
func (s *orderService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order

	err := s.txs.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		order, err = s.orders.FindWithItemsByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if order.UserID != userID {
			return ErrOrderForbidden
		}

		if !order.IsPending() {
			return &InvalidStateError{Operation: "canceled", Status: order.Status}
		}

		order.Cancel(time.Now().UTC())
		return s.orders.UpdateStatus(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order canceled",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return order, nil
}

// ListMyOrders returns all orders of the user, newest first
func (s *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orders.FindByUserWithItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns a single order of the user with its items
func (s *orderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.FindWithItemsByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrOrderForbidden
	}

	return order, nil
}
