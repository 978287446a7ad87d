package cache

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"hoardmap/pkg/db"
)

// Cacher defines the caching interface.
type Cacher interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}

// SQLiteCache implements Cacher on the cache table. History pages are
// immutable once fetched, so the request client can replay them across
// runs; stale entries age out via db.PruneCache.
type SQLiteCache struct {
	db *db.DB
}

// NewSQLiteCache creates a new cache.
func NewSQLiteCache(d *db.DB) *SQLiteCache {
	return &SQLiteCache{db: d}
}

func (c *SQLiteCache) GetCache(ctx context.Context, key string) ([]byte, bool) {
	row := c.db.QueryRowContext(ctx, "SELECT value FROM cache WHERE key = ?", key)

	var val []byte
	if err := row.Scan(&val); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *SQLiteCache) SetCache(ctx context.Context, key string, val []byte) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT INTO cache (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, created_at = CURRENT_TIMESTAMP",
		key, val)
	return err
}

// NullCache is a Cacher that never hits; used when caching is disabled.
type NullCache struct{}

func (NullCache) GetCache(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (NullCache) SetCache(ctx context.Context, key string, val []byte) error {
	return nil
}
