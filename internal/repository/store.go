package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/docreview/internal/common"
)

// OpenStore opens the store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (ReviewStore, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return OpenSQLite(ctx, cfg.DSN, logger)
	case "postgres":
		return OpenPostgres(ctx, ConfigFrom(cfg), logger)
	}
	return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown store driver %q", cfg.Driver), common.ErrInvalidInput)
}
