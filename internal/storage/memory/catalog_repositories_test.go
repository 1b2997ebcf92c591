package memory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/memory"
)

func TestCustomerRepository_CRUD(t *testing.T) {
	repo := memory.NewCustomerRepository()
	customer := domain.Customer{ID: "c1", Name: "Alice", Document: "doc-1"}

	if err := repo.Create(customer); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(domain.Customer{ID: "c2", Name: "Bob", Document: "doc-1"}); !errors.Is(err, domain.ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}

	stored, err := repo.Get("c1")
	if err != nil || stored.Name != "Alice" {
		t.Fatalf("get failed: %v %+v", err, stored)
	}

	stored.Phone = "555-0001"
	if err := repo.Update(stored); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	list, err := repo.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("list failed: %v %d", err, len(list))
	}

	if err := repo.Delete("c1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get("c1"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestProductRepository_ListWithPriceFilter(t *testing.T) {
	repo := memory.NewProductRepository()
	products := []domain.Product{
		{ID: "p1", Name: "Cheap widget", Price: decimal.RequireFromString("5.00")},
		{ID: "p2", Name: "Widget", EAN: "7890000000017", Price: decimal.RequireFromString("10.00")},
		{ID: "p3", Name: "Premium widget", Price: decimal.RequireFromString("50.00")},
	}
	for _, p := range products {
		if err := repo.Create(p); err != nil {
			t.Fatalf("create %s failed: %v", p.ID, err)
		}
	}

	if err := repo.Create(domain.Product{ID: "p4", Name: "Copy", EAN: "7890000000017"}); !errors.Is(err, domain.ErrDuplicateEAN) {
		t.Fatalf("expected ErrDuplicateEAN, got %v", err)
	}

	min := decimal.RequireFromString("10.00")
	max := decimal.RequireFromString("50.00")
	ranged, err := repo.List(domain.ProductFilter{PriceMin: &min, PriceMax: &max})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	// Диапазон цен включает границы.
	if len(ranged) != 2 {
		t.Fatalf("expected 2 products in range, got %d", len(ranged))
	}

	byName, err := repo.List(domain.ProductFilter{Name: "premium"})
	if err != nil || len(byName) != 1 || byName[0].ID != "p3" {
		t.Fatalf("name filter failed: %v %+v", err, byName)
	}

	byEAN, err := repo.List(domain.ProductFilter{EAN: "7890000000017"})
	if err != nil || len(byEAN) != 1 || byEAN[0].ID != "p2" {
		t.Fatalf("ean filter failed: %v %+v", err, byEAN)
	}
}
