package embedding

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultCacheTTL is how long cached vectors stay valid (30 days).
const DefaultCacheTTL = 720 * time.Hour

// cacheSchema stores one JSON-encoded vector per item.
const cacheSchema = `
	CREATE TABLE IF NOT EXISTS embedding_cache (
		item_id TEXT PRIMARY KEY NOT NULL,
		vector TEXT NOT NULL,
		cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// SQLiteCache implements Cache on a local SQLite database. Losing the cache
// never changes correctness, only the cost of the next request, so all write
// failures degrade to a warning rather than an error for the caller's flow.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteCache opens (or creates) the embedding cache at dbPath. Entries
// older than ttl are treated as misses; a non-positive ttl applies
// DefaultCacheTTL.
func NewSQLiteCache(dbPath string, ttl time.Duration) (*SQLiteCache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &SQLiteCache{db: db, ttl: ttl}, nil
}

// Close closes the database connection.
func (c *SQLiteCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the cached vector for itemID, reporting a miss for absent or
// expired entries.
func (c *SQLiteCache) Get(ctx context.Context, itemID string) (Vector, bool, error) {
	var data string
	var cachedAt time.Time

	err := c.db.QueryRowContext(ctx,
		"SELECT vector, cached_at FROM embedding_cache WHERE item_id = ?", itemID,
	).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query embedding cache: %w", err)
	}

	age := time.Now().UTC().Sub(cachedAt)
	if age > c.ttl {
		slog.Debug("Embedding cache entry expired", "item_id", itemID, "age", age)
		return nil, false, nil
	}

	var vector Vector
	if err := json.Unmarshal([]byte(data), &vector); err != nil {
		slog.Warn("Failed to unmarshal cached vector, treating as miss", "item_id", itemID, "error", err)
		return nil, false, nil
	}

	return vector, true, nil
}

// Put stores a vector for itemID, replacing any previous entry. Writes are
// idempotent for the same input text, so concurrent writers resolving
// last-write-wins is acceptable.
func (c *SQLiteCache) Put(ctx context.Context, itemID string, vector Vector) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal vector: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO embedding_cache (item_id, vector, cached_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		itemID, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to store vector: %w", err)
	}
	return nil
}

// ClearExpired removes entries older than the cache TTL and returns how many
// rows were deleted.
func (c *SQLiteCache) ClearExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-c.ttl)
	result, err := c.db.ExecContext(ctx, "DELETE FROM embedding_cache WHERE cached_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired cache entries: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		slog.Info("Cleared expired embedding cache entries", "count", rows)
	}
	return rows, nil
}

// ClearAll removes every cache entry and returns how many rows were deleted.
func (c *SQLiteCache) ClearAll(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM embedding_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear embedding cache: %w", err)
	}

	rows, _ := result.RowsAffected()
	slog.Info("Embedding cache cleared", "count", rows)
	return rows, nil
}
