package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product — товар каталога. Цена и имя могут меняться; уже созданные позиции
// заказов этого не замечают, потому что хранят собственный слепок.
type Product struct {
	ID   string
	Name string
	// EAN — штрихкод товара, опционален, но уникален, если задан.
	EAN         string
	Description string
	// Price — цена за единицу, неотрицательная, с фиксированной точностью.
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductSnapshot — неизменяемая копия полей товара, встраиваемая в позицию
// заказа в момент её добавления.
type ProductSnapshot struct {
	ProductID string
	Name      string
	EAN       string
	UnitPrice decimal.Decimal
}

// Snapshot возвращает слепок текущего состояния товара.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		EAN:       p.EAN,
		UnitPrice: p.Price,
	}
}
