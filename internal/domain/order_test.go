package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestOrder_ComputeTotal(t *testing.T) {
	order := &Order{ID: uuid.New(), Status: OrderStatusPending}

	order.AddItem(&OrderItem{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("3500.00"),
	})
	order.AddItem(&OrderItem{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("19.90"),
	})

	total := order.ComputeTotal()
	expected := decimal.RequireFromString("7059.70")
	if !total.Equal(expected) {
		t.Errorf("expected total %s, got %s", expected, total)
	}
}

func TestOrder_AddItemLinksOrder(t *testing.T) {
	order := &Order{ID: uuid.New()}
	item := &OrderItem{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1}

	order.AddItem(item)

	if item.OrderID != order.ID {
		t.Errorf("expected item to carry order ID %s, got %s", order.ID, item.OrderID)
	}
}

func TestOrder_Transitions(t *testing.T) {
	now := time.Now().UTC()

	order := &Order{ID: uuid.New(), Status: OrderStatusPending}
	if !order.IsPending() {
		t.Fatal("fresh order must be pending")
	}

	order.MarkPaid(now)
	if order.Status != OrderStatusPaid {
		t.Errorf("expected PAID, got %s", order.Status)
	}
	if order.PaidAt == nil || !order.PaidAt.Equal(now) {
		t.Error("MarkPaid must stamp the paid timestamp")
	}
	if order.IsPending() {
		t.Error("paid order must not report pending")
	}

	other := &Order{ID: uuid.New(), Status: OrderStatusPending}
	other.Cancel(now)
	if other.Status != OrderStatusCanceled {
		t.Errorf("expected CANCELED, got %s", other.Status)
	}
	if other.PaidAt != nil {
		t.Error("canceled order must not carry a paid timestamp")
	}

	// A cancel after an aborted settlement must drop the stale stamp
	aborted := &Order{ID: uuid.New(), Status: OrderStatusPending}
	aborted.MarkPaid(now)
	aborted.Cancel(now)
	if aborted.Status != OrderStatusCanceled || aborted.PaidAt != nil {
		t.Errorf("expected CANCELED with no paid timestamp, got %s %v", aborted.Status, aborted.PaidAt)
	}
}

func TestProperty_SubtotalIsPriceTimesQuantity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("subtotal equals unit price times quantity with exact arithmetic", prop.ForAll(
		func(cents int, quantity int) bool {
			price := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
			item := &OrderItem{Quantity: quantity, UnitPrice: price}

			expected := price.Mul(decimal.NewFromInt(int64(quantity)))
			return item.Subtotal().Equal(expected)
		},
		gen.IntRange(1, 10_000_000),
		gen.IntRange(1, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProduct_StockGuards(t *testing.T) {
	product := &Product{
		ID:    uuid.New(),
		Name:  "Gaming Laptop",
		Price: decimal.RequireFromString("3500.00"),
		Stock: 10,
	}

	if !product.HasStock(10) {
		t.Error("exact stock must satisfy the request")
	}
	if product.HasStock(11) {
		t.Error("request above stock must not be satisfiable")
	}

	if err := product.DeductStock(4); err != nil {
		t.Fatalf("deduction within stock failed: %v", err)
	}
	if product.Stock != 6 {
		t.Errorf("expected stock 6, got %d", product.Stock)
	}

	if err := product.DeductStock(7); err == nil {
		t.Error("deduction past stock must fail")
	}
	if product.Stock != 6 {
		t.Errorf("failed deduction must not change stock, got %d", product.Stock)
	}
}
