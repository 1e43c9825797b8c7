package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"rentalcore/internal/blob/core"
)

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := New()
	payload := []byte("abc")
	meta := map[string]string{"k": "v"}
	if _, err := s.Put(ctx, "x", bytes.NewReader(payload), core.PutOptions{Metadata: meta}); err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["k"] = "changed"
	info, rc, err := s.Get(ctx, "x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	if string(body) != "abc" || info.Metadata["k"] != "v" {
		t.Fatalf("unexpected blob %q %+v", body, info)
	}
	info.Metadata["k"] = "again"
	head, _ := s.Head(ctx, "x")
	if head.Metadata["k"] != "v" {
		t.Fatalf("head metadata aliased: %+v", head)
	}
}

func TestMemoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Put(ctx, "k", bytes.NewReader(nil), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(ctx, "k", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if ok, _ := s.Delete(ctx, "missing"); ok {
		t.Fatalf("delete of missing key should report false")
	}
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
}
