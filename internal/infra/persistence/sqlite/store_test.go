package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if err := store.Save(ctx, "users", []byte(`[{"id":"u1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "users", []byte(`[{"id":"u2"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	payload, ok, err := reloaded.Load(ctx, "users")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(payload) != `[{"id":"u2"}]` {
		t.Fatalf("expected last write to win, got %s", payload)
	}
	if reloaded.Path() != path {
		t.Fatalf("unexpected path %s", reloaded.Path())
	}
}

func TestSQLiteStoreMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, ok, err := store.Load(ctx, "payments"); err != nil || ok {
		t.Fatalf("expected missing bucket, got ok=%v err=%v", ok, err)
	}
	for _, bucket := range []string{"payments", "current_user"} {
		if err := store.Save(ctx, bucket, []byte("[]")); err != nil {
			t.Fatalf("save %s: %v", bucket, err)
		}
	}
	names, err := store.Buckets(ctx)
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	if len(names) != 2 || names[0] != "current_user" || names[1] != "payments" {
		t.Fatalf("unexpected buckets %v", names)
	}
	if err := store.Delete(ctx, "current_user"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "current_user"); ok {
		t.Fatalf("expected slot deleted")
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one remaining row, got %d", count)
	}
}
