package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopintake/internal/app"
)

const (
	envHTTPAddr                = "INTAKE_HTTP_ADDR"
	envMetricsAddr             = "INTAKE_METRICS_ADDR"
	envStorageDriver           = "INTAKE_STORAGE_DRIVER"
	envPostgresDSN             = "INTAKE_POSTGRES_DSN"
	envPostgresAutoMigrate     = "INTAKE_POSTGRES_AUTO_MIGRATE"
	envAdminPassword           = "ADMIN_PASSWORD"
	envSessionTTL              = "INTAKE_SESSION_TTL"
	envSessionCleanupInterval  = "INTAKE_SESSION_CLEANUP_INTERVAL"
	envSessionCleanupBatchSize = "INTAKE_SESSION_CLEANUP_BATCH_SIZE"
	envKafkaBrokers            = "INTAKE_KAFKA_BROKERS"
)

// envLookup абстрагирует os.LookupEnv, чтобы чтение конфигурации
// тестировалось без мутации окружения процесса.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv формирует конфигурацию приложения из переменных
// окружения. Некорректные значения не прерывают запуск: остаётся значение
// по умолчанию, а замечание попадает в warnings.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	warn := func(key, value string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, value, err))
	}

	if v, ok := lookup(envHTTPAddr); ok && strings.TrimSpace(v) != "" {
		cfg.HTTPAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = app.StorageDriver(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(envPostgresDSN); ok && strings.TrimSpace(v) != "" {
		cfg.PostgresDSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPostgresAutoMigrate); ok {
		if parsed, err := parseBool(v); err != nil {
			warn(envPostgresAutoMigrate, v, err)
		} else {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v, ok := lookup(envAdminPassword); ok && v != "" {
		cfg.AdminPassword = v
	}
	if v, ok := lookup(envSessionTTL); ok {
		if parsed, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0"); err != nil {
			warn(envSessionTTL, v, err)
		} else {
			cfg.SessionTTL = parsed
		}
	}
	if v, ok := lookup(envSessionCleanupInterval); ok {
		if parsed, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0"); err != nil {
			warn(envSessionCleanupInterval, v, err)
		} else {
			cfg.SessionCleanupInterval = parsed
		}
	}
	if v, ok := lookup(envSessionCleanupBatchSize); ok {
		if parsed, err := parseInt(v, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warn(envSessionCleanupBatchSize, v, err)
		} else {
			cfg.SessionCleanupBatchSize = parsed
		}
	}
	if v, ok := lookup(envKafkaBrokers); ok && strings.TrimSpace(v) != "" {
		cfg.KafkaBrokers = strings.TrimSpace(v)
	}

	return cfg, warnings
}

func parseBool(value string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	parsed, err := strconv.ParseBool(normalized)
	if err != nil {
		return false, fmt.Errorf("invalid bool value")
	}
	return parsed, nil
}

func parseInt(value string, valid func(int) bool, requirement string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value")
	}
	if !valid(parsed) {
		return 0, errors.New(requirement)
	}
	return parsed, nil
}

func parseDuration(value string, valid func(time.Duration) bool, requirement string) (time.Duration, error) {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid duration value")
	}
	if !valid(parsed) {
		return 0, errors.New(requirement)
	}
	return parsed, nil
}

func main() {
	setupLogger()

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
	}).Info("запускаем intake-service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("intake-service остановлен")
}
