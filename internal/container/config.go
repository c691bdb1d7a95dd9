// Package container wires the claim desk together and owns the lifecycle
// of the database and the loaded state.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Premium  PremiumConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Path to the SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// StorageConfig holds file storage settings
type StorageConfig struct {
	// ExportDir is where exported workbooks are written
	ExportDir string
}

// PremiumConfig holds premium calculator settings
type PremiumConfig struct {
	// RatesFile is an optional YAML file of plan tables applied on start
	RatesFile string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/claimdesk.db",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
		Storage: StorageConfig{
			ExportDir: "exports",
		},
	}
}

// Validate checks that required configuration values are present
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Storage.ExportDir == "" {
		return fmt.Errorf("storage.export_dir is required")
	}
	return nil
}
