package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего слепка клиента в заказе.
	ErrCustomerSnapshotRequired = errors.New("customer snapshot is required")
	// Ошибка отсутствующего идентификатора товара в позиции.
	ErrProductRequired = errors.New("product_id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена слепка отрицательная.
	ErrItemPriceInvalid = errors.New("item unit price must be non-negative")
	// Ошибка дублирования товара в списке позиций при создании заказа.
	ErrDuplicateOrderItem = errors.New("product is listed more than once")
	// Ошибка пустого частичного обновления.
	ErrEmptyUpdate = errors.New("no updatable fields provided")

	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderItemNotFound возвращается, если позиция не найдена в заказе.
	ErrOrderItemNotFound = errors.New("order item not found")

	// ErrLastOrderItem — попытка удалить последнюю позицию заказа.
	// Заказ после создания всегда держит хотя бы одну позицию; пустой заказ
	// не допускается — вместо этого удаляется сам заказ.
	ErrLastOrderItem = errors.New("cannot remove the last item of an order")

	// ErrDuplicateDocument — клиент с таким документом уже зарегистрирован.
	ErrDuplicateDocument = errors.New("customer document already registered")
	// ErrDuplicateEAN — товар с таким штрихкодом уже существует.
	ErrDuplicateEAN = errors.New("product ean already registered")

	// Ошибки ключей идемпотентности.
	ErrIdempotencyKeyRequired         = errors.New("idempotency key is required")
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	ErrIdempotencyKeyAlreadyExists    = errors.New("idempotency key already exists")
	ErrIdempotencyKeyNotFound         = errors.New("idempotency key not found")
	// ErrIdempotencyHashMismatch — тот же ключ пришёл с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key reused with different request")
)

// ValidationError несёт причину отказа с привязкой к конкретному полю запроса.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError создаёт ошибку валидации для поля.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation сообщает, относится ли ошибка к классу ошибок валидации запроса.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	switch {
	case errors.Is(err, ErrCustomerRequired),
		errors.Is(err, ErrProductRequired),
		errors.Is(err, ErrItemsRequired),
		errors.Is(err, ErrItemQtyInvalid),
		errors.Is(err, ErrItemPriceInvalid),
		errors.Is(err, ErrDuplicateOrderItem),
		errors.Is(err, ErrEmptyUpdate):
		return true
	}
	return false
}

// IsNotFound сообщает, что ошибка означает отсутствие ресурса.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrOrderItemNotFound)
}

// IsConflict сообщает, что операция отклонена из-за конфликта состояния.
func IsConflict(err error) bool {
	return errors.Is(err, ErrLastOrderItem) ||
		errors.Is(err, ErrDuplicateDocument) ||
		errors.Is(err, ErrDuplicateEAN) ||
		errors.Is(err, ErrIdempotencyHashMismatch)
}
