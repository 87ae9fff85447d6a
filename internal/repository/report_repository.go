package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuyerSummary aggregates a user's paid orders
type BuyerSummary struct {
	UserID     uuid.UUID       `json:"user_id"`
	UserName   string          `json:"user_name"`
	Email      string          `json:"email"`
	OrderCount int             `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// UserTicket holds the average ticket of a user's paid orders
type UserTicket struct {
	UserID        uuid.UUID       `json:"user_id"`
	UserName      string          `json:"user_name"`
	Email         string          `json:"email"`
	OrderCount    int             `json:"order_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

// ReportRepository exposes read-only sales aggregations over paid orders.
// It never mutates the order store.
type ReportRepository interface {
	TopBuyers(ctx context.Context, limit int) ([]*BuyerSummary, error)
	AverageTicketPerUser(ctx context.Context) ([]*UserTicket, error)
	RevenueByMonth(ctx context.Context, year, month int) (decimal.Decimal, error)
	RevenueByPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// TopBuyers returns the users with the most paid orders, ties broken by
// total spent
func (r *reportRepository) TopBuyers(ctx context.Context, limit int) ([]*BuyerSummary, error) {
	query := `
		SELECT u.id, u.name, u.email, COUNT(o.id), SUM(o.total_amount)
		FROM users u
		JOIN orders o ON o.user_id = u.id
		WHERE o.status = 'PAID'
		GROUP BY u.id, u.name, u.email
		ORDER BY COUNT(o.id) DESC, SUM(o.total_amount) DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top buyers: %w", err)
	}
	defer rows.Close()

	buyers := []*BuyerSummary{}
	for rows.Next() {
		buyer := &BuyerSummary{}
		err := rows.Scan(&buyer.UserID, &buyer.UserName, &buyer.Email, &buyer.OrderCount, &buyer.TotalSpent)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buyer summary: %w", err)
		}
		buyers = append(buyers, buyer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buyer summaries: %w", err)
	}

	return buyers, nil
}

// AverageTicketPerUser returns each user's average paid-order amount
func (r *reportRepository) AverageTicketPerUser(ctx context.Context) ([]*UserTicket, error) {
	query := `
		SELECT u.id, u.name, u.email, COUNT(o.id),
		       ROUND(AVG(o.total_amount), 2), SUM(o.total_amount)
		FROM users u
		JOIN orders o ON o.user_id = u.id
		WHERE o.status = 'PAID'
		GROUP BY u.id, u.name, u.email
		ORDER BY AVG(o.total_amount) DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query average tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*UserTicket{}
	for rows.Next() {
		ticket := &UserTicket{}
		err := rows.Scan(
			&ticket.UserID,
			&ticket.UserName,
			&ticket.Email,
			&ticket.OrderCount,
			&ticket.AverageTicket,
			&ticket.TotalSpent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user tickets: %w", err)
	}

	return tickets, nil
}

// RevenueByMonth sums paid-order totals for a calendar month
func (r *reportRepository) RevenueByMonth(ctx context.Context, year, month int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = 'PAID'
		AND EXTRACT(YEAR FROM paid_at) = $1
		AND EXTRACT(MONTH FROM paid_at) = $2
	`

	var revenue decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, year, month).Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("failed to query monthly revenue: %w", err)
	}

	return revenue, nil
}

// RevenueByPeriod sums paid-order totals over [from, to]
func (r *reportRepository) RevenueByPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = 'PAID'
		AND paid_at BETWEEN $1 AND $2
	`

	var revenue decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("failed to query period revenue: %w", err)
	}

	return revenue, nil
}
