package config

import (
	"fmt"

	"lifeos-proxy/internal/repository/sqlite"
)

// CreateCacheRepository opens the response cache store named by the configuration
func CreateCacheRepository(config *Config) (sqlite.Repository, error) {
	repo, err := sqlite.New(config.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache store: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory cache store for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test cache store: %w", err)
	}

	return repo, nil
}
