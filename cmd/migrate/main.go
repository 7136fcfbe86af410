package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopintake/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

var errUsage = errors.New("usage: migrate [flags] up|down|status")

// run выполняет команду миграции. Вынесено из main, чтобы поведение CLI
// проверялось тестами без перезапуска процесса.
func run(args []string, logger *log.Entry) error {
	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dsn := flags.String("dsn", "", "PostgreSQL DSN (fallback: INTAKE_POSTGRES_DSN)")
	steps := flags.Int("steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	timeout := flags.Duration("timeout", defaultTimeout, "overall deadline for the command")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errUsage
	}
	command := strings.ToLower(flags.Arg(0))
	switch command {
	case "up", "down", "status":
	default:
		return fmt.Errorf("unsupported command %q: %w", command, errUsage)
	}

	resolvedDSN := strings.TrimSpace(*dsn)
	if resolvedDSN == "" {
		resolvedDSN = strings.TrimSpace(os.Getenv("INTAKE_POSTGRES_DSN"))
	}
	if resolvedDSN == "" {
		return errors.New("INTAKE_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := postgres.Open(ctx, resolvedDSN)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	switch command {
	case "up":
		if err := store.MigrateUp(ctx, *steps); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		downSteps := *steps
		if downSteps <= 0 {
			downSteps = 1
		}
		if err := store.MigrateDown(ctx, downSteps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case "status":
		// Состояние схемы печатается ниже для любой команды.
	}

	version, applied, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	logger.WithFields(log.Fields{
		"command": command,
		"version": version,
		"applied": applied,
	}).Info("состояние схемы")

	return nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "migrate")

	if err := run(os.Args[1:], logger); err != nil {
		logger.WithError(err).Fatal("миграция не выполнена")
	}
}
