// Package config loads Preserva configuration from a YAML file with
// environment-variable overrides. Config lives in a project-local .preserva
// directory when present, otherwise under the user's home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Share   ShareConfig   `yaml:"share"`
	UI      UIConfig      `yaml:"ui"`
	Polling PollingConfig `yaml:"polling"`
}

// APIConfig configures the backend collaborator.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ShareConfig configures share-link generation. Origin is the portal
// front-end origin embedded in shared links, not the API base.
type ShareConfig struct {
	Origin string `yaml:"origin"`
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	Theme string `yaml:"theme"` // "light" or "dark"
}

// PollingConfig holds the refresh intervals. Values are duration strings
// ("10s"); unset or invalid values fall back to the defaults.
type PollingConfig struct {
	List    string `yaml:"list"`
	Detail  string `yaml:"detail"`
	Session string `yaml:"session"`
}

// Default intervals, matching the portal's observed behavior.
const (
	DefaultListInterval    = 10 * time.Second
	DefaultDetailInterval  = 5 * time.Second
	DefaultSessionInterval = time.Second
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API:   APIConfig{BaseURL: "http://localhost:3000"},
		Share: ShareConfig{Origin: "http://localhost:3001"},
		UI:    UIConfig{Theme: "light"},
	}
}

func (p PollingConfig) interval(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ListInterval is the dashboard refresh period.
func (p PollingConfig) ListInterval() time.Duration {
	return p.interval(p.List, DefaultListInterval)
}

// DetailInterval is the single-document refresh period while non-terminal.
func (p PollingConfig) DetailInterval() time.Duration {
	return p.interval(p.Detail, DefaultDetailInterval)
}

// SessionInterval is the token re-check period.
func (p PollingConfig) SessionInterval() time.Duration {
	return p.interval(p.Session, DefaultSessionInterval)
}

// Dir returns the directory where config and the token store live.
// Prefers a project-local .preserva directory, then falls back to
// ~/.preserva.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ".preserva")
		if stat, err := os.Stat(local); err == nil && stat.IsDir() {
			return local, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".preserva"), nil
}

// File returns the full path of the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration from disk, applies env overrides, and falls
// back to defaults when no file exists.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := File()
	if err != nil {
		return applyEnv(cfg), err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), fmt.Errorf("parse %s: %w", path, err)
	}
	return applyEnv(cfg), nil
}

// applyEnv layers environment overrides on top of file values.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("PRESERVA_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("PRESERVA_SHARE_ORIGIN"); v != "" {
		cfg.Share.Origin = v
	}
	if v := os.Getenv("PRESERVA_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return cfg
}

// Save writes the configuration to disk, creating the config dir if needed.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path, err := File()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
