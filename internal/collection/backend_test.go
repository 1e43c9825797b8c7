package collection

import (
	"context"
	"path/filepath"
	"testing"

	"rentalcore/internal/blob"
	"rentalcore/internal/infra/persistence/objectstore"
)

func TestOpenBackendDrivers(t *testing.T) {
	ctx := context.Background()

	mem, err := OpenBackend(ctx, BackendConfig{Driver: StorageMemory})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	_ = mem.Close()

	blobBackend, err := OpenBackend(ctx, BackendConfig{Driver: StorageBlob, Blob: blob.Config{Driver: blob.DriverMemory}, BlobPrefix: "rental"})
	if err != nil {
		t.Fatalf("blob: %v", err)
	}
	if _, ok := blobBackend.(*objectstore.Store); !ok {
		t.Fatalf("expected object store backend, got %T", blobBackend)
	}

	if _, err := OpenBackend(ctx, BackendConfig{Driver: "cassandra"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := OpenBackend(ctx, BackendConfig{Driver: StorageBlob, Blob: blob.Config{Driver: "ftp"}}); err == nil {
		t.Fatalf("expected blob driver error")
	}
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rental.db")
	s, err := Open(ctx, BackendConfig{SQLitePath: path})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = s.Close() }()
	if err := Add(ctx, s, "things", item{ID: "a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = s.Close()

	reopened, err := Open(ctx, BackendConfig{Driver: StorageSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if got := GetAll[item](ctx, reopened, "things"); len(got) != 1 {
		t.Fatalf("expected persisted item, got %v", got)
	}
}
