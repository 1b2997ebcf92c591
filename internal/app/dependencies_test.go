package app

import (
	"testing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

func TestNewDependencies(t *testing.T) {
	logger := log.WithField("test", "dependencies")
	deps := NewDependencies(logger)

	if deps == nil {
		t.Fatal("NewDependencies should not return nil")
	}

	if deps.Orders == nil {
		t.Error("Orders should not be nil")
	}

	if deps.Customers == nil {
		t.Error("Customers should not be nil")
	}

	if deps.Products == nil {
		t.Error("Products should not be nil")
	}

	if deps.Idempotency == nil {
		t.Error("Idempotency should not be nil")
	}

	if deps.Logger == nil {
		t.Error("Logger should not be nil")
	}
}

func TestNewDependencies_WithNilLogger(t *testing.T) {
	deps := NewDependencies(nil)

	if deps == nil {
		t.Fatal("NewDependencies should not return nil")
	}

	if deps.Logger == nil {
		t.Error("Logger should be initialized even when nil is passed")
	}
}

func TestNewDependencies_RepositoriesWork(t *testing.T) {
	deps := NewDependencies(nil)

	// Проверяем что репозитории рабочие, а не пустые заглушки.
	customer := domain.Customer{
		ID:       uuid.NewString(),
		Name:     "Алиса Иванова",
		Document: "1234567890",
	}
	if err := deps.Customers.Create(customer); err != nil {
		t.Errorf("Customers.Create failed: %v", err)
	}

	got, err := deps.Customers.Get(customer.ID)
	if err != nil {
		t.Fatalf("Customers.Get failed: %v", err)
	}
	if got.Name != customer.Name {
		t.Errorf("expected name %s, got %s", customer.Name, got.Name)
	}
}

func TestNewDependencies_IndependentInstances(t *testing.T) {
	deps1 := NewDependencies(nil)
	deps2 := NewDependencies(nil)

	// Каждый вызов должен создавать новые экземпляры.
	if deps1 == deps2 {
		t.Error("NewDependencies should create independent instances")
	}

	if deps1.Orders == deps2.Orders {
		t.Error("Orders instances should be independent")
	}
}
