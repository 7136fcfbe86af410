package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
	"github.com/vladislavdragonenkov/shopintake/internal/storage/memory"
	"github.com/vladislavdragonenkov/shopintake/internal/storage/postgres"
)

// runtimeDependencies — собранное по конфигурации хранилище приложения.
type runtimeDependencies struct {
	repo     domain.OrderRepository
	sessions domain.SessionStore
	// store не nil только для postgres; закрывается при остановке приложения.
	store *postgres.Store
}

// initRuntimeDependencies выбирает хранилище по конфигурации.
// Сессии всегда живут в памяти: при рестарте персонал логинится заново.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		logger.Info("using in-memory order storage")
		return &runtimeDependencies{
			repo:     memory.NewOrderRepository(),
			sessions: memory.NewSessionStore(),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, ErrPostgresDSNRequired
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres schema is up to date")
		}

		logger.Info("using postgres order storage")
		return &runtimeDependencies{
			repo:     postgres.NewOrderRepository(store),
			sessions: memory.NewSessionStore(),
			store:    store,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStorageDriver, cfg.StorageDriver)
	}
}

// close освобождает ресурсы хранилища.
func (d *runtimeDependencies) close(logger *log.Entry) {
	if d == nil || d.store == nil {
		return
	}
	if err := d.store.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres store")
	}
}
