package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteCacheSchema = `
CREATE TABLE IF NOT EXISTS lender_cache (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lender_cache_updated_at ON lender_cache (updated_at);
`

// SQLiteCache persists entries in a SQLite table so cached lender lists
// survive a restart. Rows record when they were last written so abandoned
// sessions can be pruned with DeleteStale.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

// SQLiteOption configures a SQLiteCache.
type SQLiteOption func(*SQLiteCache)

// WithSQLiteClock replaces time.Now, for tests.
func WithSQLiteClock(now func() time.Time) SQLiteOption {
	return func(c *SQLiteCache) {
		c.now = now
	}
}

// OpenSQLiteCache opens (or creates) the database at dsn and ensures the schema.
func OpenSQLiteCache(dsn string, options ...SQLiteOption) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)
	c, err := NewSQLiteCache(db, options...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// NewSQLiteCache uses an already opened database.
func NewSQLiteCache(db *sql.DB, options ...SQLiteOption) (*SQLiteCache, error) {
	if _, err := db.Exec(sqliteCacheSchema); err != nil {
		return nil, fmt.Errorf("ensure lender_cache schema: %w", err)
	}
	c := &SQLiteCache{db: db, now: time.Now}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM lender_cache WHERE key = ?`, key).Scan(&data)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set upserts the entry.
func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO lender_cache (key, data, updated_at) VALUES (?, ?, ?)`,
		key, value, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (c *SQLiteCache) Has(ctx context.Context, key string) bool {
	var one int
	err := c.db.QueryRowContext(ctx, `SELECT 1 FROM lender_cache WHERE key = ?`, key).Scan(&one)
	return err == nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM lender_cache WHERE key = ?`, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// DeleteStale removes rows not written within maxAge and returns how many
// were deleted.
func (c *SQLiteCache) DeleteStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := c.now().Add(-maxAge).Unix()
	result, err := c.db.ExecContext(ctx, `DELETE FROM lender_cache WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale cache rows: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
