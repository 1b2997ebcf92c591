package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/health"
	"github.com/vladislavdragonenkov/orders-api/internal/metrics"
	"github.com/vladislavdragonenkov/orders-api/internal/service/catalog"
	"github.com/vladislavdragonenkov/orders-api/internal/service/order"
	"github.com/vladislavdragonenkov/orders-api/internal/service/rest"
	"github.com/vladislavdragonenkov/orders-api/internal/service/snapshot"
	"github.com/vladislavdragonenkov/orders-api/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run собирает зависимости и запускает партнёрский API вместе со служебным
// HTTP-сервером. Блокируется до отмены контекста или фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if deps.closeFn == nil {
			return
		}
		if err := deps.closeFn(); err != nil {
			logger.WithError(err).Warn("не удалось закрыть хранилище")
		}
	}()

	apiMetrics := metrics.NewAPIMetrics()
	capturer := snapshot.NewCapturer(deps.customers, deps.products, logger.WithField("layer", "snapshot"))
	orderService := order.NewService(deps.orders, deps.customers, capturer, apiMetrics, logger.WithField("layer", "orders"))
	catalogService := catalog.NewService(deps.customers, deps.products, logger.WithField("layer", "catalog"))

	api := rest.NewAPI(orderService, catalogService, deps.idempotency, apiMetrics, logger.WithField("layer", "rest"), cfg.APIKey)

	healthHandler := health.NewHandler(version.GetVersion())
	if deps.storageProbe != nil {
		healthHandler.Register("storage", deps.storageProbe)
	}

	opsSrv := startOpsServer(ctx, cfg.OpsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Routes()}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("партнёрский API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем API сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startOpsServer запускает служебный HTTP-сервер с метриками и health-проверками.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *health.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", health.Liveness)
	mux.HandleFunc("/readyz", healthHandler.Readiness)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
