package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner executes a function inside a single database transaction.
// The order engine depends on this interface rather than on *sql.DB so the
// service layer can be exercised without a live database.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// TxManager is the production TxRunner backed by a connection pool
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over db
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTx begins a transaction, runs fn, and commits. Any error from fn
// (or a panic) rolls the whole transaction back.
func (m *TxManager) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
