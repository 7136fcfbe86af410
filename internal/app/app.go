package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopintake/internal/cache"
	"github.com/vladislavdragonenkov/shopintake/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/shopintake/internal/health"
	"github.com/vladislavdragonenkov/shopintake/internal/httpapi"
	"github.com/vladislavdragonenkov/shopintake/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shopintake/internal/metrics"
	"github.com/vladislavdragonenkov/shopintake/internal/service/adminauth"
	"github.com/vladislavdragonenkov/shopintake/internal/service/intake"
	"github.com/vladislavdragonenkov/shopintake/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run собирает зависимости и держит оба HTTP-сервера (API и метрики)
// до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	if err := cfg.Validate(); err != nil {
		return err
	}

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	// Kafka опционален: без брокера события просто не публикуются.
	kafkaProducer := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	var events domain.OrderEventPublisher
	if kafkaProducer != nil {
		events = kafka.NewOrderEventPublisher(kafkaProducer)
	}

	intakeMetrics := metrics.NewIntakeMetrics()
	listingCache := cache.NewListingCache()

	intakeService := intake.NewService(
		deps.repo,
		listingCache,
		events,
		intakeMetrics,
		logger.WithField("layer", "intake"),
	)

	gate := adminauth.NewGate(
		cfg.AdminPassword,
		deps.sessions,
		cfg.SessionTTL,
		logger.WithField("layer", "adminauth"),
	)
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD is not set, using the insecure default password")
	}

	cleanupWorker := adminauth.NewCleanupWorker(
		deps.sessions,
		adminauth.WithLogger(logger.WithField("layer", "session-cleanup")),
		adminauth.WithInterval(cfg.SessionCleanupInterval),
		adminauth.WithBatchSize(cfg.SessionCleanupBatchSize),
	)
	go cleanupWorker.Run(ctx)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.CheckFunc{
		Name: "storage",
		Fn: func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.repo.Ping(checkCtx)
		},
	})

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiServer := httpapi.NewServer(
		intakeService,
		gate,
		intakeMetrics,
		logger.WithField("layer", "http"),
	)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчики /metrics, /healthz и /livez.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
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
		logger.WithError(err).Warn("HTTP shutdown with error")
	}
}
