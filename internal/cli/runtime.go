package cli

import (
	"context"
	"errors"
	"fmt"

	"lifeos-proxy/internal/config"
	"lifeos-proxy/internal/gateway"
	"lifeos-proxy/internal/normalize"
	"lifeos-proxy/internal/repository/sqlite"
	"lifeos-proxy/internal/services"

	"github.com/charmbracelet/log"
)

// Runtime holds the wired services a command runs against
type Runtime struct {
	Services *services.ServiceContainer

	// Cache is nil when response caching is disabled
	Cache   *gateway.CachedSource
	closers []func() error
}

// Close releases the cache store and any other held resources
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RuntimeFactory builds a Runtime from a loaded configuration
type RuntimeFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Runtime, error)

// StoreFactory opens the cache store for a configuration
type StoreFactory func(cfg *config.Config) (sqlite.Repository, error)

// NewRuntimeFactory returns a factory wiring the configured sheet source,
// the write-back forwarder and the task service. A zero cache ttl disables
// the store entirely.
func NewRuntimeFactory(stores StoreFactory) RuntimeFactory {
	if stores == nil {
		stores = config.CreateCacheRepository
	}

	return func(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Runtime, error) {
		rt := &Runtime{}

		normalizer, err := normalize.New(cfg.Time.Timezone, cfg.Time.SourceTimezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezones: %w", err)
		}

		var store sqlite.Repository
		if cfg.Cache.TTL > 0 {
			if store, err = stores(cfg); err != nil {
				return nil, err
			}
			rt.closers = append(rt.closers, store.Close)
		}

		client := gateway.NewHTTPClient(cfg)
		source, err := gateway.NewTableSource(ctx, cfg, client, store, logger)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to create sheet source: %w", err)
		}
		if cached, ok := source.(*gateway.CachedSource); ok {
			rt.Cache = cached
		}

		var forwarder gateway.Forwarder = gateway.NewWriteBack(client, cfg.WriteBack.URL)
		if rt.Cache != nil {
			forwarder = gateway.NewInvalidatingForwarder(forwarder, rt.Cache, cfg.Sheet.TasksSheet, cfg.Sheet.StatsSheet)
		}
		rt.Services = &services.ServiceContainer{
			TaskService: services.NewTaskService(source, forwarder, normalizer, services.Options{
				TasksSheet: cfg.Sheet.TasksSheet,
				StatsSheet: cfg.Sheet.StatsSheet,
				MaxRows:    cfg.Parser.MaxRows,
			}, nil),
		}

		logger.Debug("runtime ready",
			"source", cfg.Source.Kind,
			"timezone", cfg.Time.Timezone,
			"cache", rt.Cache != nil,
		)
		return rt, nil
	}
}
