package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestProductService_CreateAndGet(t *testing.T) {
	productRepo := newMockProductRepository()
	svc := NewProductService(productRepo)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductInput{
		Name:        "Gaming Laptop",
		Description: "16GB RAM, RTX graphics",
		Price:       decimal.RequireFromString("3500.00"),
		Category:    "electronics",
		Stock:       10,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected a generated product id")
	}

	found, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Name != "Gaming Laptop" || found.Stock != 10 {
		t.Errorf("unexpected product: %+v", found)
	}
}

func TestProductService_Update(t *testing.T) {
	productRepo := newMockProductRepository()
	svc := NewProductService(productRepo)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductInput{
		Name:     "USB Hub",
		Price:    decimal.RequireFromString("35.50"),
		Category: "accessories",
		Stock:    100,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, ProductInput{
		Name:     "USB-C Hub",
		Price:    decimal.RequireFromString("39.90"),
		Category: "accessories",
		Stock:    80,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "USB-C Hub" || updated.Stock != 80 {
		t.Errorf("unexpected product after update: %+v", updated)
	}
	if !updated.Price.Equal(decimal.RequireFromString("39.90")) {
		t.Errorf("expected updated price, got %s", updated.Price)
	}

	if _, err := svc.Update(ctx, uuid.New(), ProductInput{Name: "Ghost"}); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_ListByCategory(t *testing.T) {
	productRepo := newMockProductRepository()
	svc := NewProductService(productRepo)
	ctx := context.Background()

	for _, category := range []string{"electronics", "electronics", "books"} {
		if _, err := svc.Create(ctx, ProductInput{
			Name:     "Item",
			Price:    decimal.RequireFromString("10.00"),
			Category: category,
			Stock:    1,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	electronics, err := svc.ListByCategory(ctx, "electronics")
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(electronics) != 2 {
		t.Errorf("expected 2 electronics, got %d", len(electronics))
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 products, got %d", len(all))
	}
}

func TestProductService_Delete(t *testing.T) {
	productRepo := newMockProductRepository()
	svc := NewProductService(productRepo)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductInput{
		Name:     "Monitor",
		Price:    decimal.RequireFromString("250.00"),
		Category: "electronics",
		Stock:    5,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}

	if err := svc.Delete(ctx, created.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound on double delete, got %v", err)
	}
}
