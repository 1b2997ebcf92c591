package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/health"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/memory"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/postgres"
)

// runtimeDependencies собирает репозитории выбранного драйвера хранилища.
type runtimeDependencies struct {
	orders       domain.OrderRepository
	customers    domain.CustomerRepository
	products     domain.ProductRepository
	idempotency  domain.IdempotencyRepository
	storageProbe health.Probe
	closeFn      func() error
}

// initRuntimeDependencies инициализирует хранилище по конфигурации.
// Для postgres требуется DSN; при включённой автомиграции схема
// подтягивается до состояния последней миграции.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if driver == "" {
		driver = StorageDriverMemory
	}

	switch driver {
	case StorageDriverMemory:
		logger.Info("используем хранилище в памяти")
		return runtimeDependencies{
			orders:      memory.NewOrderRepository(),
			customers:   memory.NewCustomerRepository(),
			products:    memory.NewProductRepository(),
			idempotency: memory.NewIdempotencyRepository(),
		}, nil
	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return runtimeDependencies{}, fmt.Errorf("postgres storage requires a DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return runtimeDependencies{}, fmt.Errorf("open postgres store: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return runtimeDependencies{}, fmt.Errorf("ensure postgres schema: %w", err)
			}
		}
		logger.Info("используем хранилище postgres")
		return runtimeDependencies{
			orders:       postgres.NewOrderRepository(store),
			customers:    postgres.NewCustomerRepository(store),
			products:     postgres.NewProductRepository(store),
			idempotency:  postgres.NewIdempotencyRepository(store),
			storageProbe: store.Ping,
			closeFn:      store.Close,
		}, nil
	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
