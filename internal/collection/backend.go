package collection

import (
	"context"
	"fmt"

	"rentalcore/internal/blob"
	"rentalcore/internal/infra/persistence/memory"
	"rentalcore/internal/infra/persistence/objectstore"
	"rentalcore/internal/infra/persistence/postgres"
	"rentalcore/internal/infra/persistence/sqlite"
	"rentalcore/pkg/domain"
)

// StorageDriver identifies a concrete state backend.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBlob     StorageDriver = "blob"     // one object per bucket on a blob store
)

// BackendConfig selects and parameterizes a state backend.
type BackendConfig struct {
	Driver      StorageDriver // default sqlite
	SQLitePath  string
	PostgresDSN string
	Blob        blob.Config
	BlobPrefix  string
}

// OpenBackend constructs the state backend described by cfg.
func OpenBackend(ctx context.Context, cfg BackendConfig) (domain.StateBackend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageBlob:
		blobs, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return objectstore.NewStore(blobs, cfg.BlobPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// Open constructs the backend and wraps it in a Store.
func Open(ctx context.Context, cfg BackendConfig, opts ...Option) (*Store, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(backend, opts...), nil
}
