package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics содержит метрики HTTP API и операций над заказами.
type APIMetrics struct {
	// Счётчики операций над заказами
	ordersCreated  prometheus.Counter
	ordersUpdated  prometheus.Counter
	ordersDeleted  prometheus.Counter
	itemsAdded     prometheus.Counter
	itemsUpdated   prometheus.Counter
	itemsRemoved   prometheus.Counter
	idempotentHits prometheus.Counter

	// Гистограмма времени обработки HTTP запросов
	httpDuration *prometheus.HistogramVec

	// Gauge для запросов в обработке
	inFlightRequests prometheus.Gauge
}

// NewAPIMetrics создаёт новый экземпляр метрик API.
func NewAPIMetrics() *APIMetrics {
	return newAPIMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newAPIMetricsWithRegisterer(registerer prometheus.Registerer) *APIMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &APIMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_updated_total",
			Help: "Total number of order field updates applied",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		itemsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_items_added_total",
			Help: "Total number of order items added",
		}),
		itemsUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_items_updated_total",
			Help: "Total number of order item quantity updates",
		}),
		itemsRemoved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_items_removed_total",
			Help: "Total number of order items removed",
		}),
		idempotentHits: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_idempotent_replays_total",
			Help: "Total number of order creations answered from the idempotency cache",
		}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orders_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route", "status"}),
		inFlightRequests: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "orders_http_in_flight_requests",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *APIMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderUpdated увеличивает счётчик обновлений заказов.
func (m *APIMetrics) RecordOrderUpdated() {
	m.ordersUpdated.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *APIMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordItemAdded увеличивает счётчик добавленных позиций.
func (m *APIMetrics) RecordItemAdded() {
	m.itemsAdded.Inc()
}

// RecordItemUpdated увеличивает счётчик изменений количества позиций.
func (m *APIMetrics) RecordItemUpdated() {
	m.itemsUpdated.Inc()
}

// RecordItemRemoved увеличивает счётчик удалённых позиций.
func (m *APIMetrics) RecordItemRemoved() {
	m.itemsRemoved.Inc()
}

// RecordIdempotentReplay увеличивает счётчик повторных ответов из кеша идемпотентности.
func (m *APIMetrics) RecordIdempotentReplay() {
	m.idempotentHits.Inc()
}

// RecordHTTPRequest записывает длительность обработки HTTP запроса.
func (m *APIMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordRequestStarted увеличивает количество запросов в обработке.
func (m *APIMetrics) RecordRequestStarted() {
	m.inFlightRequests.Inc()
}

// RecordRequestFinished уменьшает количество запросов в обработке.
func (m *APIMetrics) RecordRequestFinished() {
	m.inFlightRequests.Dec()
}
