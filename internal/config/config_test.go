package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "data/claimdesk.db", cfg.Database.Path)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /var/lib/claimdesk/desk.db
export:
  dir: /srv/exports
logger:
  format: json
`), 0644))
	t.Setenv("CLAIMDESK_RATES_FILE", "/etc/claimdesk/rates.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/claimdesk/desk.db", cfg.Database.Path)
	assert.Equal(t, "/srv/exports", cfg.Export.Dir)
	assert.Equal(t, "/etc/claimdesk/rates.yaml", cfg.Premium.RatesFile)
	assert.Equal(t, "json", cfg.Logger.Format)

	cc := cfg.ToContainerConfig()
	assert.Equal(t, "/srv/exports", cc.Storage.ExportDir)
	assert.Equal(t, "/etc/claimdesk/rates.yaml", cc.Premium.RatesFile)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLAIMDESK_EXPORT_DIR=from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CLAIMDESK_EXPORT_DIR") })

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Export.Dir)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"no database", func(c *Config) { c.Database.Path = " " }, true},
		{"no export dir", func(c *Config) { c.Export.Dir = "" }, true},
		{"bad format", func(c *Config) { c.Logger.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Path: "desk.db"},
				Export:   ExportConfig{Dir: "exports"},
				Logger:   LoggerConfig{Format: "console"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
