package cache

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/catalog"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns a copy of the stored payload.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, errors.Wrapf(catalog.ErrCacheMiss, "key %s", key)
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return errors.Wrap(catalog.ErrPersistenceFailure, err.Error())
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(catalog.ErrPersistenceFailure, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
