package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:               "order-1",
		CustomerID:       "customer-1",
		CustomerName:     "Alice",
		CustomerDocument: "123.456.789-00",
		ShippingAddress:  "Main st. 1",
		Status:           domain.OrderStatusNew,
		Items: []domain.OrderItem{
			{
				ID:          "item-1",
				ProductID:   "product-1",
				ProductName: "Widget",
				UnitPrice:   decimal.RequireFromString("10.00"),
				Quantity:    3,
				CreatedAt:   now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderTotal_RecomputedFromItems(t *testing.T) {
	order := makeOrder()

	if got := order.Total(); !got.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected total 30.00, got %s", got)
	}

	order.Items = append(order.Items, domain.OrderItem{
		ID:        "item-2",
		ProductID: "product-1",
		UnitPrice: decimal.RequireFromString("15.00"),
		Quantity:  2,
	})

	if got := order.Total(); !got.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("expected total 60.00 after second item, got %s", got)
	}
	if got := order.TotalQuantity(); got != 5 {
		t.Fatalf("expected total quantity 5, got %d", got)
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := domain.OrderItem{
		UnitPrice: decimal.RequireFromString("2.50"),
		Quantity:  4,
	}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected subtotal 10.00, got %s", got)
	}
}

func TestOrderApplyUpdate_PartialOnly(t *testing.T) {
	order := makeOrder()
	order.ContactPhone = "555-0001"
	order.Email = "alice@example.com"

	phone := "555-0002"
	order.ApplyUpdate(domain.OrderUpdate{ContactPhone: &phone})

	if order.ContactPhone != "555-0002" {
		t.Fatalf("expected phone updated, got %q", order.ContactPhone)
	}
	// Непереданные поля остаются нетронутыми.
	if order.ShippingAddress != "Main st. 1" {
		t.Fatalf("shipping address must be untouched, got %q", order.ShippingAddress)
	}
	if order.Email != "alice@example.com" {
		t.Fatalf("email must be untouched, got %q", order.Email)
	}
}

func TestOrderUpdateIsEmpty(t *testing.T) {
	if !(domain.OrderUpdate{}).IsEmpty() {
		t.Fatal("zero update must be empty")
	}
	addr := ""
	if (domain.OrderUpdate{ShippingAddress: &addr}).IsEmpty() {
		t.Fatal("update with explicit empty string is not empty")
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no customer",
			mut: func(o *domain.Order) {
				o.CustomerID = ""
			},
		},
		{
			name: "no customer snapshot",
			mut: func(o *domain.Order) {
				o.CustomerName = ""
			},
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Quantity = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].UnitPrice = decimal.RequireFromString("-1")
			},
		},
		{
			name: "no product reference",
			mut: func(o *domain.Order) {
				o.Items[0].ProductID = ""
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestSnapshotsAreValueCopies(t *testing.T) {
	customer := domain.Customer{ID: "c1", Name: "Alice", Document: "doc-1"}
	snap := customer.Snapshot()

	customer.Name = "Renamed"
	if snap.Name != "Alice" {
		t.Fatalf("customer snapshot must not follow live edits, got %q", snap.Name)
	}

	product := domain.Product{ID: "p1", Name: "Widget", Price: decimal.RequireFromString("10.00")}
	psnap := product.Snapshot()

	product.Price = decimal.RequireFromString("15.00")
	if !psnap.UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("product snapshot must keep the captured price, got %s", psnap.UnitPrice)
	}
}
