package domain

import "time"

// IdempotencyStatus описывает жизненный цикл ключа идемпотентности.
type IdempotencyStatus string

const (
	// IdempotencyStatusProcessing — запрос принят и ещё обрабатывается.
	IdempotencyStatusProcessing IdempotencyStatus = "processing"
	// IdempotencyStatusDone — запрос завершён успешно, ответ сохранён.
	IdempotencyStatusDone IdempotencyStatus = "done"
	// IdempotencyStatusFailed — обработка завершилась ошибкой.
	IdempotencyStatusFailed IdempotencyStatus = "failed"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s IdempotencyStatus) Valid() bool {
	switch s {
	case IdempotencyStatusProcessing, IdempotencyStatusDone, IdempotencyStatusFailed:
		return true
	default:
		return false
	}
}

// IdempotencyRecord хранит состояние обработки запроса с заголовком Idempotency-Key.
// ResponseBody и HTTPStatus заполняются после завершения и воспроизводятся
// при повторе того же запроса.
type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseBody []byte
	HTTPStatus   int
	Status       IdempotencyStatus
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired сообщает, что срок хранения записи истёк к моменту now.
func (r IdempotencyRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !r.ExpiresAt.After(now)
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
// Фоновой очистки нет: истёкшие записи вычищаются лениво при вставке.
type IdempotencyRepository interface {
	// CreateProcessing регистрирует новый ключ в состоянии processing.
	// Для уже существующего ключа возвращает его запись вместе с
	// ErrIdempotencyKeyAlreadyExists, либо ErrIdempotencyHashMismatch,
	// если тело запроса отличается от первоначального.
	CreateProcessing(key, requestHash string, expiresAt time.Time) (IdempotencyRecord, error)
	// Get возвращает запись по ключу или ErrIdempotencyKeyNotFound.
	Get(key string) (IdempotencyRecord, error)
	// MarkDone сохраняет успешный ответ для воспроизведения.
	MarkDone(key string, responseBody []byte, httpStatus int) error
	// MarkFailed сохраняет ответ об ошибке для воспроизведения.
	MarkFailed(key string, responseBody []byte, httpStatus int) error
}
