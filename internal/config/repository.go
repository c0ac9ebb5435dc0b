package config

import (
	"context"
	"fmt"
	"os"

	"tasks-api/internal/repository"
	"tasks-api/internal/repository/postgres"
	"tasks-api/internal/repository/sqlite"
)

// CreateRepository opens the storage backend selected by config
func CreateRepository(ctx context.Context, config *Config) (repository.Repository, error) {
	switch config.Database.Driver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(ctx, config.Database.ConnectTimeout)
		defer cancel()

		repo, err := postgres.New(ctx, config.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil

	case DriverSQLite:
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		repo, err := sqlite.New(config.GetDatabasePath())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	}

	return nil, &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", config.Database.Driver)}
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (repository.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
