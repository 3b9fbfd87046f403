package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "trading-journal", cfg.Journal.Namespace)
	assert.Equal(t, 15*time.Second, cfg.Journal.SyncTimeout())
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
gateway:
  base_url: "https://blobs.example.com"
  max_retries: 1
journal:
  namespace: "desk-a"
logger:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644))
	t.Setenv("BLOB_READ_WRITE_TOKEN", "secret-token")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "https://blobs.example.com", cfg.Gateway.BaseURL)
	assert.Equal(t, 1, cfg.Gateway.MaxRetries)
	assert.Equal(t, "desk-a", cfg.Journal.Namespace)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "secret-token", cfg.Gateway.Token)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("gateway: [unclosed"), 0o644))

	_, err := LoadConfig(dir)

	assert.Error(t, err)
}
