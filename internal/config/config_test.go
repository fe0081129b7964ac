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
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, DefaultListInterval, cfg.Polling.ListInterval())
	assert.Equal(t, DefaultDetailInterval, cfg.Polling.DetailInterval())
	assert.Equal(t, DefaultSessionInterval, cfg.Polling.SessionInterval())
}

func TestPollingIntervalParsing(t *testing.T) {
	p := PollingConfig{List: "30s", Detail: "bogus", Session: "-5s"}
	assert.Equal(t, 30*time.Second, p.ListInterval())
	assert.Equal(t, DefaultDetailInterval, p.DetailInterval(), "invalid value falls back")
	assert.Equal(t, DefaultSessionInterval, p.SessionInterval(), "non-positive value falls back")
}

func TestLoadFromProjectLocalDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".preserva"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".preserva", "config.yaml"), []byte(`
api:
  base_url: https://api.example.com
ui:
  theme: dark
polling:
  list: 20s
`), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 20*time.Second, cfg.Polling.ListInterval())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PRESERVA_API_URL", "https://env.example.com")
	t.Setenv("PRESERVA_THEME", "dark")

	cfg := applyEnv(DefaultConfig())
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "dark", cfg.UI.Theme)
}
