package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"lifeos-proxy/internal/gateway"
)

// CacheCommand inspects and prunes the response cache
type CacheCommand struct {
	app   *App
	cache *gateway.CachedSource
}

// NewCacheCommand creates a new cache command handler. cache may be nil.
func NewCacheCommand(app *App, cache *gateway.CachedSource) *CacheCommand {
	return &CacheCommand{app: app, cache: cache}
}

// List prints one line per cached sheet
func (c *CacheCommand) List(ctx context.Context) error {
	if c.cache == nil {
		fmt.Fprintln(c.app.out, "Cache is disabled")
		return nil
	}

	entries, err := c.cache.Entries(ctx)
	if err != nil {
		return NewErrorHandler().Handle("list cache entries", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.app.out, "Cache is empty")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		state := "stale"
		if e.Fresh {
			state = "fresh"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d bytes\t%s\n",
			e.Sheet, e.FetchedAt.Format(time.RFC3339), e.Age.Truncate(time.Second), e.Bytes, state)
	}
	return w.Flush()
}

// Purge removes expired entries
func (c *CacheCommand) Purge(ctx context.Context) error {
	if c.cache == nil {
		fmt.Fprintln(c.app.out, "Cache is disabled")
		return nil
	}

	n, err := c.cache.Purge(ctx)
	if err != nil {
		return NewErrorHandler().Handle("purge cache", err)
	}
	fmt.Fprintf(c.app.out, "Removed %d expired entries\n", n)
	return nil
}
