// Command seed loads the embedded demo dataset into the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"rwa-backend/internal/config"
	"rwa-backend/internal/logging"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/seed"
)

func main() {
	cfg, err := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

// run keeps the store's deferred Close ahead of any exit.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.StorageDriver != config.StoragePostgres {
		return errors.New("seeding needs STORAGE_DRIVER=postgres; the memory store is seeded at server start with SEED_DEMO=true")
	}

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	ds, err := seed.Demo()
	if err != nil {
		return err
	}
	loaded, err := seed.Load(ctx, store, ds, cfg.Billing, logger)
	if err != nil {
		return err
	}
	logger.Info("seed finished", "loaded", loaded, "users", len(ds.Users), "bills", len(ds.Bills))
	return nil
}
