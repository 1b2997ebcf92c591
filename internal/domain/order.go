package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusNew — заказ создан и ожидает обработки.
	OrderStatusNew OrderStatus = "new"
	// OrderStatusConfirmed — заказ подтверждён и передан в исполнение.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusCanceled — заказ отменён.
	OrderStatusCanceled OrderStatus = "canceled"
)

// OrderItem представляет одну позицию заказа вместе со слепком товара.
// Поля слепка (ProductName, ProductEAN, UnitPrice) фиксируются в момент
// добавления позиции и никогда не перезаписываются.
type OrderItem struct {
	// ID позиции нужен для адресации при изменении количества и удалении.
	ID string
	// ProductID — ссылка на исходный товар; сам товар может быть позже изменён или удалён.
	ProductID string
	// ProductName — имя товара на момент добавления позиции.
	ProductName string
	// ProductEAN — штрихкод товара на момент добавления позиции (может быть пустым).
	ProductEAN string
	// UnitPrice — цена за единицу на момент добавления позиции.
	UnitPrice decimal.Decimal
	// Quantity — количество единиц, строго положительное.
	Quantity int32
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// Subtotal возвращает стоимость позиции: слепок цены, умноженный на количество.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// Order агрегирует шапку заказа, слепок данных клиента и позиции.
// Заказ владеет позициями: их время жизни не выходит за время жизни заказа.
type Order struct {
	ID         string
	CustomerID string
	// CustomerName и CustomerDocument — слепок данных клиента на момент создания заказа.
	CustomerName     string
	CustomerDocument string
	// Контактные поля заказа редактируются независимо от слепка клиента.
	ShippingAddress string
	ContactPhone    string
	Email           string
	Status          OrderStatus
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Total возвращает сумму заказа. Значение всегда пересчитывается из позиций
// и нигде не хранится, поэтому не может устареть.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalQuantity возвращает суммарное количество единиц по всем позициям.
func (o *Order) TotalQuantity() int32 {
	var qty int32
	for _, item := range o.Items {
		qty += item.Quantity
	}
	return qty
}

// ApplyUpdate переносит в заказ только заполненные поля частичного обновления.
func (o *Order) ApplyUpdate(upd OrderUpdate) {
	if upd.ShippingAddress != nil {
		o.ShippingAddress = *upd.ShippingAddress
	}
	if upd.ContactPhone != nil {
		o.ContactPhone = *upd.ContactPhone
	}
	if upd.Email != nil {
		o.Email = *upd.Email
	}
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.CustomerName == "" {
		errs = append(errs, ErrCustomerSnapshotRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	for _, item := range o.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrProductRequired)
		}
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	return errs
}
