package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access.
// Orders and their items form one aggregate: items are written and removed
// only together with their parent order.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, q Querier, order *domain.Order) error
	UpdateStatus(ctx context.Context, q Querier, order *domain.Order) error
	FindWithItemsByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindWithItemsByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*domain.Order, error)
	FindByUserWithItems(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems persists an order and all of its items inside the
// caller's transaction, so a failure on any line leaves nothing behind.
func (r *orderRepository) CreateWithItems(ctx context.Context, q Querier, order *domain.Order) error {
	orderQuery := `
		INSERT INTO orders (id, user_id, status, total_amount, created_at, updated_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.UserID,
		order.Status,
		order.TotalAmount,
		order.CreatedAt,
		order.UpdatedAt,
		order.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, line_no, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// line_no preserves the requested line order across reads
	for lineNo, item := range order.Items {
		_, err := q.ExecContext(
			ctx,
			itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			lineNo,
			item.Quantity,
			item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// UpdateStatus persists an order's status, updated timestamp and paid
// timestamp. Items are immutable so nothing else is ever rewritten.
func (r *orderRepository) UpdateStatus(ctx context.Context, q Querier, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3, paid_at = $4
		WHERE id = $1
	`

	result, err := q.ExecContext(ctx, query, order.ID, order.Status, order.UpdatedAt, order.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// FindWithItemsByID retrieves an order with its items eagerly joined
func (r *orderRepository) FindWithItemsByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.findWithItems(ctx, r.db, id, false)
}

// FindWithItemsByIDForUpdate retrieves an order with its items while
// holding a row lock on the order for the duration of the transaction.
// A concurrent payment on the same order blocks here and then observes
// the terminal status.
func (r *orderRepository) FindWithItemsByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*domain.Order, error) {
	return r.findWithItems(ctx, q, id, true)
}

func (r *orderRepository) findWithItems(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, u.name, o.status, o.total_amount, o.created_at, o.updated_at, o.paid_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE OF o`
	}

	order := &domain.Order{}
	err := q.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.UserName,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.PaidAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.findItems(ctx, q, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// FindByUserWithItems retrieves all orders of a user, newest first, with
// items eagerly joined to avoid per-item follow-up lookups.
func (r *orderRepository) FindByUserWithItems(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, u.name, o.status, o.total_amount, o.created_at, o.updated_at, o.paid_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.UserName,
			&order.Status,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := r.findItems(ctx, r.db, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

func (r *orderRepository) findItems(ctx context.Context, q Querier, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	query := `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.unit_price
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.line_no
	`

	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
