package gateway

import (
	"context"
	"encoding/json"
	"time"

	"lifeos-proxy/internal/domain"
	apperrors "lifeos-proxy/internal/errors"
	"lifeos-proxy/internal/repository/sqlite"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// CachedSource is a read-through cache over another TableSource. Entries live
// in the cache repository keyed by sheet name. A failing cache store never
// fails a read; the source is queried directly instead.
type CachedSource struct {
	source TableSource
	store  sqlite.Repository
	ttl    time.Duration
	logger *log.Logger
	group  singleflight.Group
	now    func() time.Time

	fetchTimeout time.Duration
}

// NewCachedSource wraps source. A ttl of zero or less disables caching.
func NewCachedSource(source TableSource, store sqlite.Repository, ttl time.Duration, logger *log.Logger) *CachedSource {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedSource{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// WithFetchTimeout bounds each shared upstream read. The read runs detached
// from the caller that started it, so this is its only deadline.
func (c *CachedSource) WithFetchTimeout(d time.Duration) *CachedSource {
	c.fetchTimeout = d
	return c
}

// FetchTable implements TableSource. Concurrent misses for one sheet share a
// single upstream read; each caller still returns as soon as its own ctx is
// done, without failing the others.
func (c *CachedSource) FetchTable(ctx context.Context, sheet string) (*Snapshot, error) {
	if c.ttl <= 0 {
		return c.source.FetchTable(ctx, sheet)
	}

	if snap, ok := c.lookup(ctx, sheet); ok {
		return snap, nil
	}

	ch := c.group.DoChan(sheet, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if c.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.fetchTimeout)
			defer cancel()
		}

		snap, err := c.source.FetchTable(fetchCtx, sheet)
		if err != nil {
			return nil, err
		}
		c.save(fetchCtx, snap)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, transportError("read sheet "+sheet, c.fetchTimeout, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := *res.Val.(*Snapshot)
		return &shared, nil
	}
}

// Purge removes entries older than the ttl.
func (c *CachedSource) Purge(ctx context.Context) (int64, error) {
	return c.store.PurgeBefore(ctx, c.now().Add(-c.ttl))
}

func (c *CachedSource) lookup(ctx context.Context, sheet string) (*Snapshot, bool) {
	entry, err := c.store.GetEntry(ctx, sheet)
	if err != nil {
		if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			c.logger.Warn("cache read failed, reading sheet directly", "sheet", sheet, "err", err)
		}
		return nil, false
	}

	if !entry.Fresh(c.now(), c.ttl) {
		return nil, false
	}

	var table domain.Table
	if err := json.Unmarshal(entry.Body, &table); err != nil {
		c.logger.Warn("discarding unreadable cache entry", "sheet", sheet, "err", err)
		return nil, false
	}

	c.logger.Debug("cache hit", "sheet", sheet, "age", entry.Age(c.now()))
	return &Snapshot{Sheet: sheet, Table: &table, FetchedAt: entry.FetchedAt, Cached: true}, true
}

func (c *CachedSource) save(ctx context.Context, snap *Snapshot) {
	body, err := json.Marshal(snap.Table)
	if err != nil {
		c.logger.Warn("cache encode failed", "sheet", snap.Sheet, "err", err)
		return
	}

	entry := &sqlite.CacheEntry{Key: snap.Sheet, Body: body, FetchedAt: snap.FetchedAt}
	if err := c.store.PutEntry(ctx, entry); err != nil {
		c.logger.Warn("cache write failed", "sheet", snap.Sheet, "err", err)
	}
}

// Invalidate drops the cached copy of sheet. A sheet that was not cached is
// not an error.
func (c *CachedSource) Invalidate(ctx context.Context, sheet string) error {
	err := c.store.DeleteEntry(ctx, sheet)
	if err != nil && !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		return err
	}
	return nil
}

// EntryInfo describes one cached sheet.
type EntryInfo struct {
	Sheet     string
	FetchedAt time.Time
	Age       time.Duration
	Bytes     int
	Fresh     bool
}

// Entries lists the cached sheets, most recently fetched first.
func (c *CachedSource) Entries(ctx context.Context) ([]EntryInfo, error) {
	entries, err := c.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	infos := make([]EntryInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, EntryInfo{
			Sheet:     e.Key,
			FetchedAt: e.FetchedAt,
			Age:       e.Age(now),
			Bytes:     len(e.Body),
			Fresh:     e.Fresh(now, c.ttl),
		})
	}
	return infos, nil
}
