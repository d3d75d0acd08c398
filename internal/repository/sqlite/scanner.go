package sqlite

import "fmt"

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanCacheEntry scans a single cache entry from a database row
func ScanCacheEntry(scanner Scanner) (*CacheEntry, error) {
	entry := &CacheEntry{}
	var fetchedAt string

	if err := scanner.Scan(&entry.Key, &entry.Body, &fetchedAt); err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid fetched_at %q: %w", fetchedAt, err)
	}
	entry.FetchedAt = t

	return entry, nil
}

// ScanCacheEntries scans multiple cache entries from database rows
func ScanCacheEntries(rows Rows) ([]*CacheEntry, error) {
	var entries []*CacheEntry
	for rows.Next() {
		entry, err := ScanCacheEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
