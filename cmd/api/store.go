package main

import (
	"context"
	"fmt"

	"github.com/leadflow/crm-directory/internal/config"
	"github.com/leadflow/crm-directory/internal/entity"
	"github.com/leadflow/crm-directory/internal/infra/database"
)

// snapshotStore is what every backend provides.
type snapshotStore interface {
	entity.SnapshotRepository
	Ping(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (snapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendFile:
		s, err := database.NewFileSnapshotStore(cfg.SnapshotDir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.BackendMemory:
		return database.NewMemorySnapshotStore(), noop, nil
	case config.BackendSQLite:
		s, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		s, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := database.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
