// Package rest реализует партнёрский HTTP API поверх сервисов заказов и справочников.
package rest

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/metrics"
	"github.com/vladislavdragonenkov/orders-api/internal/service/catalog"
	"github.com/vladislavdragonenkov/orders-api/internal/service/order"
)

const (
	apiKeyHeader         = "X-API-Key"
	idempotencyKeyHeader = "Idempotency-Key"
)

// API связывает HTTP-обработчики с сервисами и инфраструктурой.
type API struct {
	orders      *order.Service
	catalog     *catalog.Service
	idempotency domain.IdempotencyRepository
	metrics     *metrics.APIMetrics
	logger      *log.Entry
	apiKey      string
}

// NewAPI конструирует API c зависимостями.
func NewAPI(
	orders *order.Service,
	catalogSvc *catalog.Service,
	idempotency domain.IdempotencyRepository,
	apiMetrics *metrics.APIMetrics,
	logger *log.Entry,
	apiKey string,
) *API {
	if logger == nil {
		logger = log.New().WithField("component", "rest-api")
	}
	return &API{
		orders:      orders,
		catalog:     catalogSvc,
		idempotency: idempotency,
		metrics:     apiMetrics,
		logger:      logger,
		apiKey:      apiKey,
	}
}

// Routes собирает маршрутизатор партнёрского API.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(a.observeRequests)

	r.Route("/api", func(r chi.Router) {
		r.Use(a.requireAPIKey)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", a.createOrder)
			r.Get("/", a.listOrders)
			r.Get("/count", a.countOrders)

			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", a.getOrder)
				r.Patch("/", a.updateOrder)
				r.Delete("/", a.deleteOrder)

				r.Post("/items", a.addOrderItem)
				r.Put("/items/{itemID}", a.updateOrderItem)
				r.Delete("/items/{itemID}", a.removeOrderItem)
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", a.createCustomer)
			r.Get("/", a.listCustomers)
			r.Get("/{customerID}", a.getCustomer)
			r.Put("/{customerID}", a.updateCustomer)
			r.Delete("/{customerID}", a.deleteCustomer)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", a.createProduct)
			r.Get("/", a.listProducts)
			r.Get("/{productID}", a.getProduct)
			r.Put("/{productID}", a.updateProduct)
			r.Delete("/{productID}", a.deleteProduct)
		})
	})

	return r
}
