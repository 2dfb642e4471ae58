package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/shelf/internal/catalog"
)

const sqliteFileName = "shelf-cache.db"

// SQLiteStore keeps every key as a row of a single table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the cache database inside dir.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000", filepath.Join(dir, sqliteFileName))
	return openSQLite(dsn)
}

func openSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open cache database")
	}
	// One connection keeps in-memory databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping cache database")
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate cache database")
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);`)
	return err
}

// Get returns the stored payload for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cache_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(catalog.ErrCacheMiss, "key %s", key)
		}
		return nil, errors.Wrapf(err, "query %s", key)
	}
	return value, nil
}

// Set upserts the payload for key in a single statement.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return errors.Wrap(catalog.ErrPersistenceFailure, err.Error())
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO cache_entries (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return errors.Wrapf(catalog.ErrPersistenceFailure, "upsert %s: %v", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
