// Package objectstore persists collection payloads as one JSON object per
// bucket on a blob.Store (filesystem, S3/MinIO or memory).
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"rentalcore/internal/blob"
	"rentalcore/pkg/domain"
)

var _ domain.StateBackend = (*Store)(nil)

// DefaultPrefix is used when NewStore receives an empty prefix.
const DefaultPrefix = "collections"

// Store maps bucket "users" to the object "<prefix>/users.json".
type Store struct {
	blobs  blob.Store
	prefix string
	mu     sync.Mutex
}

// NewStore wraps blobs. The prefix is trimmed of surrounding slashes.
func NewStore(blobs blob.Store, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{blobs: blobs, prefix: prefix}
}

func (s *Store) key(bucket string) string {
	return path.Join(s.prefix, bucket+".json")
}

// Load implements domain.StateBackend.
func (s *Store) Load(ctx context.Context, bucket string) ([]byte, bool, error) {
	_, rc, err := s.blobs.Get(ctx, s.key(bucket))
	if errors.Is(err, blob.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", bucket, err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", bucket, err)
	}
	return payload, true, nil
}

// Save implements domain.StateBackend. Blob writes are create-only, so the
// previous object is removed first; a crash in between loses the bucket.
func (s *Store) Save(ctx context.Context, bucket string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(bucket)
	if _, err := s.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("replace %s: %w", bucket, err)
	}
	opts := blob.PutOptions{ContentType: "application/json", Metadata: map[string]string{"bucket": bucket}}
	if _, err := s.blobs.Put(ctx, key, bytes.NewReader(payload), opts); err != nil {
		return fmt.Errorf("put %s: %w", bucket, err)
	}
	return nil
}

// Delete implements domain.StateBackend.
func (s *Store) Delete(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.blobs.Delete(ctx, s.key(bucket)); err != nil {
		return fmt.Errorf("delete %s: %w", bucket, err)
	}
	return nil
}

// Buckets lists bucket names stored under the prefix.
func (s *Store) Buckets(ctx context.Context) ([]string, error) {
	infos, err := s.blobs.List(ctx, s.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		name := strings.TrimPrefix(info.Key, s.prefix+"/")
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	return out, nil
}

// Driver reports the underlying blob driver.
func (s *Store) Driver() blob.Driver { return s.blobs.Driver() }

// Close implements domain.StateBackend. Blob stores hold no resources.
func (s *Store) Close() error { return nil }
