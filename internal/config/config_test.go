package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "match.events", cfg.NATS.Subject)
	assert.Equal(t, 30*time.Second, cfg.Banner.Period)
	assert.Equal(t, 5*time.Second, cfg.Banner.DisplayDuration)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8080"
db:
  driver: sqlite
  sqlite_file: test.sqlite
banner:
  period: 1m
  display_duration: 10s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "test.sqlite", cfg.DB.SQLiteFile)
	assert.Equal(t, time.Minute, cfg.Banner.Period)
	assert.Equal(t, 10*time.Second, cfg.Banner.DisplayDuration)

	// Untouched sections keep their defaults
	assert.Equal(t, "match.events", cfg.NATS.Subject)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8080\"\n"), 0o644))

	t.Setenv("PORT", "9090")
	t.Setenv("BANNER_PERIOD", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Banner.Period)
}

func TestValidation(t *testing.T) {
	cfg := Default()
	cfg.DB.Driver = "mongodb"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DB.Driver = "postgres"
	assert.Error(t, cfg.Validate(), "postgres without a DSN must fail")
	cfg.DB.PostgresDSN = "postgres://localhost/statlive"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Banner.DisplayDuration = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Banner.Period = 2 * time.Second
	cfg.Banner.DisplayDuration = 5 * time.Second
	assert.Error(t, cfg.Validate(), "period below display duration must fail")

	cfg = Default()
	cfg.Session.TTL = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
