package cli

import (
	"context"
	"time"

	"lifeos-proxy/internal/api"
	"lifeos-proxy/internal/gateway"
	"lifeos-proxy/internal/server"
)

// ServeCommand runs the HTTP proxy
type ServeCommand struct {
	app   *App
	cache *gateway.CachedSource
}

// NewServeCommand creates a new serve command handler. cache may be nil.
func NewServeCommand(app *App, cache *gateway.CachedSource) *ServeCommand {
	return &ServeCommand{app: app, cache: cache}
}

// Execute serves until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	if c.cache != nil {
		go c.purgeLoop(ctx, c.app.config.Cache.TTL)
	}

	srv := server.New(c.app.config.Server, api.NewRouter(c.app.service, c.app.logger), c.app.logger)
	return srv.ListenAndServe(ctx)
}

// purgeLoop drops expired cache entries every interval.
func (c *ServeCommand) purgeLoop(ctx context.Context, interval time.Duration) {
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.cache.Purge(ctx)
			if err != nil {
				c.app.logger.Warn("cache purge failed", "err", err)
				continue
			}
			c.app.logger.Debug("cache purged", "entries", n)
		}
	}
}
