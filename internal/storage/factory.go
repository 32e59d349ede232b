package storage

import (
	"context"
	"fmt"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/config"
)

// NewRepository opens the backend selected by cfg.StorageBackend.
func NewRepository(ctx context.Context, cfg *config.Config, logger internal.Logger) (CheckInRepository, error) {
	switch cfg.StorageBackend {
	case "file":
		return NewFileStorage(cfg.CheckInsFile, logger)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.PostgresDSN, logger)
	case "sqlite":
		return NewSQLiteStorage(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
	}
}
