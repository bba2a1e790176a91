package core

import (
	"context"
	"fmt"
	"log/slog"

	"primenest/internal/config"
	"primenest/internal/kv"
	"primenest/internal/mirror"
)

// OpenStore opens the durable area selected by cfg.Storage and constructs a
// Store over it. The caller closes the returned kv.Store with kv.Close.
//
//	PRIMENEST_STORAGE_DRIVER: memory|fs|sqlite|postgres|redis|s3 (default fs)
//	PRIMENEST_SEED: false disables the demo dataset
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, kv.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	area, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	store := NewStore(ctx, StoreOptions{
		Mirror:   mirror.New(area, logger),
		SkipSeed: !cfg.Seed,
		Logger:   logger,
	})
	report := store.LoadReport()
	logger.Info("store ready",
		"driver", area.Driver(),
		"loaded", len(report.Loaded),
		"failed", len(report.Failed),
		"seeded", store.Seeded())
	return store, area, nil
}
