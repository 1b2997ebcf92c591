package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/memory"
)

// Dependencies содержит репозитории приложения поверх памяти.
// Используется в разработке и в тестах, когда Postgres недоступен.
type Dependencies struct {
	Orders      domain.OrderRepository
	Customers   domain.CustomerRepository
	Products    domain.ProductRepository
	Idempotency domain.IdempotencyRepository
	Logger      *log.Entry
}

// NewDependencies создаёт и инициализирует все зависимости поверх памяти.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	return &Dependencies{
		Orders:      memory.NewOrderRepository(),
		Customers:   memory.NewCustomerRepository(),
		Products:    memory.NewProductRepository(),
		Idempotency: memory.NewIdempotencyRepository(),
		Logger:      logger,
	}
}
