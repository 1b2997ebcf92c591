package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/memory"
)

func newOrder(id, customerID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:               id,
		CustomerID:       customerID,
		CustomerName:     "Alice",
		CustomerDocument: "doc-1",
		ShippingAddress:  "Main st. 1",
		Status:           domain.OrderStatusNew,
		Items: []domain.OrderItem{
			{
				ID:          id + "-item-1",
				ProductID:   "product-1",
				ProductName: "Widget",
				UnitPrice:   decimal.RequireFromString("10.00"),
				Quantity:    3,
				CreatedAt:   createdAt,
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "customer-1", time.Now().UTC())

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != order.ID || len(stored.Items) != 1 {
		t.Fatalf("unexpected stored order: %+v", stored)
	}
	if !stored.Total().Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected total 30.00, got %s", stored.Total())
	}
}

func TestOrderRepository_CreateRejectsInvalid(t *testing.T) {
	repo := memory.NewOrderRepository()

	empty := newOrder("order-1", "customer-1", time.Now().UTC())
	empty.Items = nil
	if err := repo.Create(empty); !errors.Is(err, domain.ErrItemsRequired) {
		t.Fatalf("expected ErrItemsRequired, got %v", err)
	}

	invalid := newOrder("order-2", "customer-1", time.Now().UTC())
	invalid.Items[0].Quantity = 0
	if err := repo.Create(invalid); !errors.Is(err, domain.ErrItemQtyInvalid) {
		t.Fatalf("expected ErrItemQtyInvalid, got %v", err)
	}

	// После отказа не остаётся ни одной строки.
	count, err := repo.Count(domain.OrderFilter{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 orders after rejected creates, got %d", count)
	}
}

func TestOrderRepository_ListFiltersAndOrdering(t *testing.T) {
	repo := memory.NewOrderRepository()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i, spec := range []struct {
		id       string
		customer string
		offset   time.Duration
	}{
		{"order-1", "customer-1", 0},
		{"order-2", "customer-1", time.Hour},
		{"order-3", "customer-2", 2 * time.Hour},
	} {
		if err := repo.Create(newOrder(spec.id, spec.customer, base.Add(spec.offset))); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	// Без условий — все заказы, самые свежие первыми.
	all, err := repo.List(domain.OrderFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "order-3" || all[2].ID != "order-1" {
		t.Fatalf("unexpected ordering: %+v", all)
	}

	byCustomer, err := repo.List(domain.OrderFilter{CustomerID: "customer-1"})
	if err != nil {
		t.Fatalf("list by customer failed: %v", err)
	}
	if len(byCustomer) != 2 {
		t.Fatalf("expected 2 orders for customer-1, got %d", len(byCustomer))
	}

	// Диапазон дат включает границы.
	from := base.Add(time.Hour)
	to := base.Add(2 * time.Hour)
	ranged, err := repo.List(domain.OrderFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("list by date failed: %v", err)
	}
	if len(ranged) != 2 || ranged[0].ID != "order-3" || ranged[1].ID != "order-2" {
		t.Fatalf("unexpected date range result: %+v", ranged)
	}

	count, err := repo.Count(domain.OrderFilter{CustomerID: "customer-1"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestOrderRepository_UpdateFieldsPartial(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "customer-1", time.Now().UTC())
	order.ContactPhone = "555-0001"
	order.Email = "alice@example.com"
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	phone := "555-0002"
	updated, err := repo.UpdateFields(order.ID, domain.OrderUpdate{ContactPhone: &phone})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ContactPhone != "555-0002" {
		t.Fatalf("expected updated phone, got %q", updated.ContactPhone)
	}
	if updated.ShippingAddress != "Main st. 1" || updated.Email != "alice@example.com" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if _, err := repo.UpdateFields(order.ID, domain.OrderUpdate{}); !errors.Is(err, domain.ErrEmptyUpdate) {
		t.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}
	if _, err := repo.UpdateFields("missing", domain.OrderUpdate{ContactPhone: &phone}); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ItemLifecycle(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "customer-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Добавление позиции с новым слепком цены.
	added, err := repo.AddItem(order.ID, domain.OrderItem{
		ID:          "order-1-item-2",
		ProductID:   "product-1",
		ProductName: "Widget",
		UnitPrice:   decimal.RequireFromString("15.00"),
		Quantity:    2,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(added.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(added.Items))
	}
	if !added.Total().Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("expected total 60.00, got %s", added.Total())
	}

	// Обновление количества не трогает слепок.
	updated, err := repo.UpdateItemQuantity(order.ID, "order-1-item-1", 5)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	for _, item := range updated.Items {
		if item.ID == "order-1-item-1" {
			if item.Quantity != 5 {
				t.Fatalf("expected quantity 5, got %d", item.Quantity)
			}
			if !item.UnitPrice.Equal(decimal.RequireFromString("10.00")) {
				t.Fatalf("snapshot price must stay 10.00, got %s", item.UnitPrice)
			}
		}
	}

	if _, err := repo.UpdateItemQuantity(order.ID, "order-1-item-1", 0); !errors.Is(err, domain.ErrItemQtyInvalid) {
		t.Fatalf("expected ErrItemQtyInvalid, got %v", err)
	}
	if _, err := repo.UpdateItemQuantity(order.ID, "missing", 1); !errors.Is(err, domain.ErrOrderItemNotFound) {
		t.Fatalf("expected ErrOrderItemNotFound, got %v", err)
	}

	// Удаление предпоследней позиции допустимо.
	removed, err := repo.RemoveItem(order.ID, "order-1-item-2")
	if err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if len(removed.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(removed.Items))
	}

	// Последняя позиция не удаляется, и повторные попытки дают тот же результат.
	for i := 0; i < 3; i++ {
		if _, err := repo.RemoveItem(order.ID, "order-1-item-1"); !errors.Is(err, domain.ErrLastOrderItem) {
			t.Fatalf("attempt %d: expected ErrLastOrderItem, got %v", i, err)
		}
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("order must still hold its last item, got %d", len(stored.Items))
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "customer-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if err := repo.Delete(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on double delete, got %v", err)
	}
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "customer-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	// Мутация возвращённого значения не должна протекать в хранилище.
	first.Items[0].Quantity = 99

	second, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if second.Items[0].Quantity != 3 {
		t.Fatalf("stored order was mutated through a returned copy")
	}
}
