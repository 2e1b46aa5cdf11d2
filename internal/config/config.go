// Package config handles global refclerk configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/refclerk/config.yml.
// Every field is optional; zero values fall back to built-in defaults.
type Config struct {
	SearchBaseURL  string `yaml:"search_base_url,omitempty"`
	VenueBaseURL   string `yaml:"venue_base_url,omitempty"`
	RecordBaseURL  string `yaml:"record_base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	ExportDir      string `yaml:"export_dir,omitempty"`
	CachePath      string `yaml:"cache_path,omitempty"`
	CacheDisabled  bool   `yaml:"cache_disabled,omitempty"`
	LogPath        string `yaml:"log_path,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refclerk"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// StateDir is the dot-directory under the home directory holding the
	// log file, record cache, and default export location.
	StateDir = ".refclerk"
)

// configCache caches the loaded config for the life of the process.
var configCache *Config

// Path returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/refclerk/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load loads the global configuration file. Returns an empty config (not an
// error) if the file doesn't exist. Environment variables REFCLERK_EXPORT_DIR,
// REFCLERK_CACHE_PATH, and REFCLERK_DISABLE_CACHE override file values.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	cfg := &Config{}

	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No config file is fine.
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if v := os.Getenv("REFCLERK_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("REFCLERK_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if os.Getenv("REFCLERK_DISABLE_CACHE") != "" {
		cfg.CacheDisabled = true
	}

	configCache = cfg
	return cfg, nil
}

// Reset clears the cached config. Useful for testing.
func Reset() {
	configCache = nil
}

// Timeout returns the configured request timeout, or 0 when unset.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// stateDir returns the state directory path, or "" if the home directory is
// unknown.
func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, StateDir)
}

// EffectiveExportDir returns the configured export directory, defaulting to
// ~/.refclerk/exports.
func (c *Config) EffectiveExportDir() string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	if d := stateDir(); d != "" {
		return filepath.Join(d, "exports")
	}
	return "exports"
}

// EffectiveCachePath returns the record cache path, or "" when caching is
// disabled or no location can be determined.
func (c *Config) EffectiveCachePath() string {
	if c.CacheDisabled {
		return ""
	}
	if c.CachePath != "" {
		return c.CachePath
	}
	if d := stateDir(); d != "" {
		return filepath.Join(d, "cache", "records.db")
	}
	return ""
}

// EffectiveLogPath returns the log file path used by the serve adapter,
// defaulting to ~/.refclerk/refclerk.log.
func (c *Config) EffectiveLogPath() string {
	if c.LogPath != "" {
		return c.LogPath
	}
	if d := stateDir(); d != "" {
		return filepath.Join(d, "refclerk.log")
	}
	return ""
}
