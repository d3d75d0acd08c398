package sqlite

import "time"

// CacheEntry is a stored upstream payload keyed by sheet name
type CacheEntry struct {
	Key       string
	Body      []byte
	FetchedAt time.Time
}

// Age returns how long ago the entry was fetched
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Fresh reports whether the entry is younger than ttl
func (e *CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && e.Age(now) < ttl
}
