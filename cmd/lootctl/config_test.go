package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gateway: http://shop.local:9000
store: /tmp/loot.json
timeout: 3s
log:
  level: debug
`), 0o600))

	t.Setenv("LOOT_GATEWAY", "http://override:8080")
	t.Setenv("LOOT_LOG_PRETTY", "false")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:8080", cfg.Gateway)
	assert.Equal(t, "/tmp/loot.json", cfg.Store)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Gateway)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}
