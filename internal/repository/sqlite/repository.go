package sqlite

import (
	"context"
	"database/sql"
	"time"

	"lifeos-proxy/internal/errors"
	"lifeos-proxy/internal/logging"
	"lifeos-proxy/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Repository defines the interface for cache storage operations
type Repository interface {
	GetEntry(ctx context.Context, key string) (*CacheEntry, error)
	ListEntries(ctx context.Context) ([]*CacheEntry, error)
	PutEntry(ctx context.Context, entry *CacheEntry) error
	DeleteEntry(ctx context.Context, key string) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewCacheError("open database", err)
	}

	// Every pooled connection to :memory: would see its own empty database.
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewCacheError("run migrations", err)
	}

	if applied, err := migrations.AppliedVersions(db); err == nil {
		logging.Debugf("cache store %s ready, %d migrations applied", dbPath, len(applied))
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// GetEntry retrieves the cache entry stored under key
func (r *SQLiteRepository) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	query := `
	SELECT cache_key, body, fetched_at
	FROM cache_entries
	WHERE cache_key = ?`

	return QuerySingle(ctx, r.db, query, ScanCacheEntry, "cache entry", key, key)
}

// ListEntries retrieves all cache entries, most recently fetched first
func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]*CacheEntry, error) {
	query := `
	SELECT cache_key, body, fetched_at
	FROM cache_entries
	ORDER BY fetched_at DESC`

	return QueryMultiple(ctx, r.db, query, ScanCacheEntries, "cache entries")
}

// PutEntry inserts or replaces the entry stored under entry.Key
func (r *SQLiteRepository) PutEntry(ctx context.Context, entry *CacheEntry) error {
	if entry.Key == "" {
		return errors.NewValidationError("cache key cannot be empty", nil)
	}

	query := `
	INSERT INTO cache_entries (cache_key, body, fetched_at)
	VALUES (?, ?, ?)
	ON CONFLICT(cache_key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`

	_, err := ExecuteCount(ctx, r.db, query, entry.Key, entry.Body, FormatTimeForDB(entry.FetchedAt))
	return err
}

// DeleteEntry removes the entry stored under key
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, key string) error {
	query := `DELETE FROM cache_entries WHERE cache_key = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "cache entry", key, key)
}

// PurgeBefore removes entries fetched before cutoff and returns how many were removed
func (r *SQLiteRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM cache_entries WHERE fetched_at < ?`
	return ExecuteCount(ctx, r.db, query, FormatTimeForDB(cutoff))
}
