package main

import (
	"fmt"
	"os"

	"lifeos-proxy/internal/config"
	"lifeos-proxy/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// developmentCachePath keeps the cache next to the working copy
const developmentCachePath = "lifeos-cache.db"

// StoreFactory opens the cache store for the current environment
type StoreFactory struct {
	env Environment
}

// NewStoreFactory creates a new store factory for the given environment
func NewStoreFactory(env Environment) *StoreFactory {
	return &StoreFactory{env: env}
}

// CreateStore opens the cache store. Testing always uses an in-memory
// database; development uses a local file unless one is configured.
func (sf *StoreFactory) CreateStore(cfg *config.Config) (sqlite.Repository, error) {
	switch sf.env {
	case Testing:
		return config.CreateTestRepository()
	case Development:
		if cfg.Cache.Path == sqlite.MemoryPath {
			repo, err := sqlite.New(developmentCachePath)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize development cache store: %w", err)
			}
			return repo, nil
		}
		return config.CreateCacheRepository(cfg)
	default:
		return config.CreateCacheRepository(cfg)
	}
}

// getEnvironment determines the current environment
func getEnvironment() Environment {
	switch os.Getenv("LIFEOS_ENV") {
	case "development":
		return Development
	case "testing":
		return Testing
	default:
		return Production
	}
}
