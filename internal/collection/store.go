// Package collection implements the persistent collection store: named
// buckets holding JSON arrays of records, plus single-value slots.
//
// Every mutation re-encodes and rewrites the whole bucket. Reads never fail:
// an uninitialized, unreadable or undecodable bucket is an empty collection.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"rentalcore/pkg/domain"
)

// Record is implemented by every stored entity.
type Record interface {
	RecordID() string
}

// Logger receives corruption and backend read warnings. *slog.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Store serializes access to a domain.StateBackend. It holds no cached state:
// every call reads the backend.
type Store struct {
	backend domain.StateBackend
	logger  Logger
	mu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded reads.
func WithLogger(logger Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps backend.
func New(backend domain.StateBackend, opts ...Option) *Store {
	s := &Store{backend: backend, logger: noopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying state backend.
func (s *Store) Backend() domain.StateBackend { return s.backend }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Clear drops a bucket or slot. Later reads see an empty collection.
func (s *Store) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

// readList decodes a bucket. The error is only non-nil for backend failures;
// undecodable payloads are logged and treated as empty.
func readList[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	payload, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || len(payload) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		s.logger.Warn("collection payload unreadable, treating as empty", "bucket", key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeList[T any](ctx context.Context, s *Store, key string, items []T) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Save(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetAll returns the full collection in insertion order.
func GetAll[T any](ctx context.Context, s *Store, key string) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := readList[T](ctx, s, key)
	if err != nil {
		s.logger.Warn("collection read failed, treating as empty", "bucket", key, "error", err)
		return []T{}
	}
	return items
}

// Add appends item. It fails with domain.ErrDuplicateID when the id is taken.
func Add[T Record](ctx context.Context, s *Store, key string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := readList[T](ctx, s, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	id := item.RecordID()
	for _, existing := range items {
		if existing.RecordID() == id {
			return fmt.Errorf("%s %q: %w", key, id, domain.ErrDuplicateID)
		}
	}
	return writeList(ctx, s, key, append(items, item))
}

// Update replaces the record with the given id by merge(current). When no
// record matches it returns false and leaves the stored payload untouched.
// The merged record keeps its position and its id.
func Update[T Record](ctx context.Context, s *Store, key, id string, merge func(T) T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := readList[T](ctx, s, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	for i, existing := range items {
		if existing.RecordID() != id {
			continue
		}
		next := merge(existing)
		if next.RecordID() != id {
			return false, fmt.Errorf("update %s %q: id cannot change", key, id)
		}
		items[i] = next
		return true, writeList(ctx, s, key, items)
	}
	return false, nil
}

// Remove filters out the record with the given id. Missing ids are a no-op
// that does not rewrite the bucket.
func Remove[T Record](ctx context.Context, s *Store, key, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := readList[T](ctx, s, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	kept := items[:0]
	for _, existing := range items {
		if existing.RecordID() != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, writeList(ctx, s, key, kept)
}

// LoadSlot reads a single-value slot. Absent or undecodable slots report false.
func LoadSlot[T any](ctx context.Context, s *Store, key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value T
	payload, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		s.logger.Warn("slot read failed", "slot", key, "error", err)
		return value, false
	}
	if !ok || len(payload) == 0 {
		return value, false
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		s.logger.Warn("slot payload unreadable", "slot", key, "error", err)
		var zero T
		return zero, false
	}
	return value, true
}

// SaveSlot replaces a single-value slot.
func SaveSlot[T any](ctx context.Context, s *Store, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ClearSlot removes a single-value slot.
func ClearSlot(ctx context.Context, s *Store, key string) error {
	return s.Clear(ctx, key)
}
