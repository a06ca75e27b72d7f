package repository

import (
	"context"
	"fmt"
	"log/slog"

	"rwa-backend/internal/config"
	"rwa-backend/internal/db"
)

// Open builds the store selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return NewMemoryStore(), nil
	case config.StoragePostgres:
		pg, err := db.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, err
			}
			logger.Info("database schema applied")
		}
		return NewPostgresStore(pg), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
