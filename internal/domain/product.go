package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// HasStock reports whether the product can cover the requested quantity
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// DeductStock removes quantity units from the product's stock.
// The stock count never goes negative.
func (p *Product) DeductStock(quantity int) error {
	if !p.HasStock(quantity) {
		return fmt.Errorf("insufficient stock for product %q: available %d, requested %d", p.Name, p.Stock, quantity)
	}
	p.Stock -= quantity
	return nil
}
