package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile_NoFile(t *testing.T) {
	// Point HOME at a directory that definitely has no config file
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfigFile("")
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ExplicitPathMissing(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	prosefedDir := filepath.Join(tmpDir, ".prosefed")
	require.NoError(t, os.MkdirAll(prosefedDir, 0o700))

	configPath := filepath.Join(prosefedDir, "config.yaml")
	configContent := `crawl:
  start_id: 100
  end_id: 200
  respect_robots: true
output:
  path: "/data/out.jsonl"
store:
  type: "sqlite"
  dsn: "/data/prosefed.db"
log:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

	t.Setenv("HOME", tmpDir)

	cfg, err := LoadConfigFile("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NotNil(t, cfg.Crawl.StartID)
	assert.Equal(t, 100, *cfg.Crawl.StartID)
	require.NotNil(t, cfg.Crawl.EndID)
	assert.Equal(t, 200, *cfg.Crawl.EndID)
	require.NotNil(t, cfg.Crawl.RespectRobots)
	assert.True(t, *cfg.Crawl.RespectRobots)
	assert.Equal(t, "/data/out.jsonl", cfg.Output.Path)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "/data/prosefed.db", cfg.Store.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigFile_PartialConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  path: out.jsonl\n"), 0o600))

	cfg, err := LoadConfigFile(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "out.jsonl", cfg.Output.Path)
	assert.Nil(t, cfg.Crawl.StartID, "unset keys should stay nil")
	assert.Empty(t, cfg.Store.Type)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("crawl:\n  start_id: [not an int\n"), 0o600))

	cfg, err := LoadConfigFile(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
