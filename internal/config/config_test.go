package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, uint16(5432), cfg.Database.Port)
	assert.Equal(t, "pgscope-snapshots", cfg.Snapshot.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: 8088
database:
  host: db.internal
  password: secret
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections keep defaults.
	assert.Equal(t, "postgres", cfg.Database.User)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_HOST", "envhost")
	t.Setenv("DATABASE_PORT", "6432")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("SNAPSHOT_USE_SSL", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "envhost", cfg.Database.Host)
	assert.Equal(t, uint16(6432), cfg.Database.Port)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.Snapshot.UseSSL)
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv("DATABASE_PORT", "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint16(5432), cfg.Database.Port)
}
