// Package memory provides a process-local state backend used for tests and
// ephemeral runs.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"rentalcore/pkg/domain"
)

var _ domain.StateBackend = (*Store)(nil)

// Store keeps bucket payloads in a map. Payloads are copied on the way in and
// out so callers never share backing arrays with the store.
type Store struct {
	mu      sync.RWMutex
	buckets map[string][]byte
	closed  bool
}

// NewStore constructs an empty in-memory backend.
func NewStore() *Store {
	return &Store{buckets: make(map[string][]byte)}
}

// Load implements domain.StateBackend.
func (s *Store) Load(_ context.Context, bucket string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, errClosed
	}
	payload, ok := s.buckets[bucket]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

// Save implements domain.StateBackend.
func (s *Store) Save(_ context.Context, bucket string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.buckets[bucket] = append([]byte(nil), payload...)
	return nil
}

// Delete implements domain.StateBackend.
func (s *Store) Delete(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	delete(s.buckets, bucket)
	return nil
}

// Close implements domain.StateBackend. Later calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Buckets returns the names of every written bucket, sorted.
func (s *Store) Buckets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var errClosed = errors.New("memory state backend closed")
