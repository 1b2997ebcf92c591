package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderFilter описывает поддерживаемые условия отбора заказов.
// Пустое значение поля означает отсутствие условия.
type OrderFilter struct {
	// CustomerID — точное совпадение по клиенту.
	CustomerID string
	// DateFrom и DateTo задают включающий диапазон по времени создания заказа.
	DateFrom *time.Time
	DateTo   *time.Time
}

// ProductFilter описывает поддерживаемые условия отбора товаров.
type ProductFilter struct {
	// Name — подстрочное совпадение по имени (без учёта регистра).
	Name string
	// EAN — точное совпадение по штрихкоду.
	EAN string
	// PriceMin и PriceMax задают включающий диапазон по цене.
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
}

// OrderUpdate — частичное обновление контактных полей заказа.
// nil означает «поле не передано», поэтому отсутствующее и пустое значение различимы.
type OrderUpdate struct {
	ShippingAddress *string
	ContactPhone    *string
	Email           *string
}

// IsEmpty сообщает, что в обновлении нет ни одного заполненного поля.
func (u OrderUpdate) IsEmpty() bool {
	return u.ShippingAddress == nil && u.ContactPhone == nil && u.Email == nil
}
