package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Order represents a customer order with its line items.
// PAID and CANCELED are terminal states; only PENDING orders transition.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	UserName    string          `json:"user_name" db:"-"`
	Status      OrderStatus     `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	Items       []*OrderItem    `json:"items" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	PaidAt      *time.Time      `json:"paid_at" db:"paid_at"`
}

// OrderItem is a line of an order. UnitPrice is the product price captured
// at order-creation time and never changes afterwards.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"-"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Subtotal returns unit price times quantity
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddItem appends an item to the order and links it to the order
func (o *Order) AddItem(item *OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
}

// ComputeTotal sums the subtotals of all items with exact decimal arithmetic
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsPending reports whether the order can still transition
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// MarkPaid transitions the order to PAID and stamps the paid timestamp
func (o *Order) MarkPaid(now time.Time) {
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
}

// Cancel transitions the order to CANCELED. A paid timestamp exists only
// on PAID orders, so a stamp left over from an aborted settlement is cleared.
func (o *Order) Cancel(now time.Time) {
	o.Status = OrderStatusCanceled
	o.PaidAt = nil
	o.UpdatedAt = now
}
