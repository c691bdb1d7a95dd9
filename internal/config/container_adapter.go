package config

import (
	"github.com/garyjia/lic-claimdesk/internal/container"
)

// ToContainerConfig converts the file-based Config into the container's
// configuration structure
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Storage: container.StorageConfig{
			ExportDir: c.Export.Dir,
		},
		Premium: container.PremiumConfig{
			RatesFile: c.Premium.RatesFile,
		},
	}
}
