package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewAPIMetrics(t *testing.T) {
	metrics := newAPIMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("newAPIMetricsWithRegisterer should not return nil")
	}

	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if metrics.ordersUpdated == nil {
		t.Error("ordersUpdated counter should not be nil")
	}
	if metrics.ordersDeleted == nil {
		t.Error("ordersDeleted counter should not be nil")
	}
	if metrics.itemsAdded == nil {
		t.Error("itemsAdded counter should not be nil")
	}
	if metrics.itemsUpdated == nil {
		t.Error("itemsUpdated counter should not be nil")
	}
	if metrics.itemsRemoved == nil {
		t.Error("itemsRemoved counter should not be nil")
	}
	if metrics.idempotentHits == nil {
		t.Error("idempotentHits counter should not be nil")
	}
	if metrics.httpDuration == nil {
		t.Error("httpDuration histogram vec should not be nil")
	}
	if metrics.inFlightRequests == nil {
		t.Error("inFlightRequests gauge should not be nil")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newAPIMetricsWithRegisterer(reg)
	second := newAPIMetricsWithRegisterer(reg)

	// Повторная регистрация возвращает уже существующие коллекторы.
	first.RecordOrderCreated()
	second.RecordOrderCreated()

	metric := &dto.Metric{}
	if err := first.ordersCreated.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordOrderCounters(t *testing.T) {
	metrics := newAPIMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderCreated()
	metrics.RecordOrderUpdated()
	metrics.RecordOrderDeleted()
	metrics.RecordItemAdded()
	metrics.RecordItemUpdated()
	metrics.RecordItemRemoved()
	metrics.RecordIdempotentReplay()

	counters := map[string]prometheus.Counter{
		"ordersCreated":  metrics.ordersCreated,
		"ordersUpdated":  metrics.ordersUpdated,
		"ordersDeleted":  metrics.ordersDeleted,
		"itemsAdded":     metrics.itemsAdded,
		"itemsUpdated":   metrics.itemsUpdated,
		"itemsRemoved":   metrics.itemsRemoved,
		"idempotentHits": metrics.idempotentHits,
	}
	for name, counter := range counters {
		metric := &dto.Metric{}
		if err := counter.Write(metric); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		if metric.Counter.GetValue() != 1.0 {
			t.Errorf("%s: expected counter value 1.0, got %f", name, metric.Counter.GetValue())
		}
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	metrics := newAPIMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordHTTPRequest("POST", "/api/orders", 201, 42*time.Millisecond)
	metrics.RecordHTTPRequest("POST", "/api/orders", 201, 58*time.Millisecond)

	histogram, err := metrics.httpDuration.GetMetricWithLabelValues("POST", "/api/orders", "201")
	if err != nil {
		t.Fatalf("get histogram with labels: %v", err)
	}

	metric := &dto.Metric{}
	if err := histogram.(prometheus.Histogram).Write(metric); err != nil {
		t.Fatalf("failed to write histogram: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", metric.Histogram.GetSampleCount())
	}
}

func TestInFlightGauge(t *testing.T) {
	metrics := newAPIMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordRequestStarted()
	metrics.RecordRequestStarted()
	metrics.RecordRequestFinished()

	metric := &dto.Metric{}
	if err := metrics.inFlightRequests.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if metric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected gauge value 1.0, got %f", metric.Gauge.GetValue())
	}
}
