package domain

import "time"

// Customer — клиент партнёрского API. Профиль редактируется независимо от
// заказов: заказы ссылаются на клиента, но хранят собственный слепок его данных.
type Customer struct {
	ID string
	// Name — полное имя клиента.
	Name string
	// Document — налоговый идентификатор клиента, уникален в системе.
	Document string
	Phone    string
	Address  string
	Email    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerSnapshot — неизменяемая копия полей клиента, встраиваемая в заказ
// в момент его создания.
type CustomerSnapshot struct {
	CustomerID string
	Name       string
	Document   string
	Phone      string
	Address    string
	Email      string
}

// Snapshot возвращает слепок текущего состояния клиента.
func (c Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		CustomerID: c.ID,
		Name:       c.Name,
		Document:   c.Document,
		Phone:      c.Phone,
		Address:    c.Address,
		Email:      c.Email,
	}
}
