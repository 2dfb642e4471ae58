package cache

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// Logical cache keys. Each is owned by exactly one writer.
const (
	KeyProducts   = "PRODUCTS_CACHE"
	KeyCategories = "CATEGORIES_CACHE"
	KeyFavourites = "USER_FAVOURITES"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store persists opaque payloads by key. Get returns catalog.ErrCacheMiss
// when the key is absent; Set failures wrap catalog.ErrPersistenceFailure.
// Reads and writes are atomic per key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// Open builds the backend named by backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown cache backend %q", backend)
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("cache key is empty")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return errors.Errorf("invalid cache key %q", key)
	}
	return nil
}
