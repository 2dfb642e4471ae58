package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/catalog"
)

// FileStore keeps one JSON file per key under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the file for key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(catalog.ErrCacheMiss, "key %s", key)
		}
		return nil, errors.Wrapf(err, "read %s", key)
	}
	return data, nil
}

// Set writes value to a temp file and renames it over the key's file, so a
// concurrent Get sees either the old or the new payload.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return errors.Wrap(catalog.ErrPersistenceFailure, err.Error())
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(catalog.ErrPersistenceFailure, err.Error())
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrapf(catalog.ErrPersistenceFailure, "create temp for %s: %v", key, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(catalog.ErrPersistenceFailure, "write %s: %v", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(catalog.ErrPersistenceFailure, "sync %s: %v", key, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(catalog.ErrPersistenceFailure, "close %s: %v", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return errors.Wrapf(catalog.ErrPersistenceFailure, "rename %s: %v", key, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
