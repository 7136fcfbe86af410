package app

import (
	"errors"
	"fmt"
	"time"
)

// StorageDriver выбирает реализацию хранилища заказов.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Ошибки конфигурации отличимы от ошибок данных: приложение с неверной
// конфигурацией не стартует вовсе.
var (
	ErrPostgresDSNRequired      = errors.New("postgres DSN is required when postgres driver is selected")
	ErrUnsupportedStorageDriver = errors.New("unsupported storage driver")
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	AdminPassword string
	SessionTTL    time.Duration

	SessionCleanupInterval  time.Duration
	SessionCleanupBatchSize int

	KafkaBrokers string
}

// DefaultConfig возвращает настройки по умолчанию: API на :8080,
// метрики на :9090, in-memory хранилище.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:                ":8080",
		MetricsAddr:             ":9090",
		StorageDriver:           StorageDriverMemory,
		PostgresAutoMigrate:     true,
		SessionTTL:              12 * time.Hour,
		SessionCleanupInterval:  10 * time.Minute,
		SessionCleanupBatchSize: 500,
	}
}

// Validate проверяет согласованность конфигурации перед стартом.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return ErrPostgresDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedStorageDriver, c.StorageDriver)
	}

	if c.HTTPAddr == "" {
		return errors.New("HTTP address must not be empty")
	}
	if c.MetricsAddr == "" {
		return errors.New("metrics address must not be empty")
	}
	if c.SessionTTL < 0 {
		return errors.New("session TTL must not be negative")
	}

	return nil
}
