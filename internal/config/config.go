package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tag picker defaults used when the config leaves a value unset.
const (
	DefaultMaxTags     = 5
	DefaultDebounce    = 300 * time.Millisecond
	DefaultSearchLimit = 10
	DefaultLogLevel    = "info"
)

// Config holds CLI configuration stored at ~/.quorum/config.
type Config struct {
	APIKey      string `yaml:"api_key"`
	UserID      string `yaml:"user_id"`
	Username    string `yaml:"username"`
	BaseURL     string `yaml:"base_url,omitempty"`
	MaxTags     int    `yaml:"max_tags,omitempty"`
	DebounceMS  int    `yaml:"debounce_ms,omitempty"`
	SearchLimit int    `yaml:"search_limit,omitempty"`
	LogFile     string `yaml:"log_file,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
}

// Dir returns the directory holding the config and the default log file.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quorum")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config missing api_key")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the tag picker cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MaxTags < 0:
		return fmt.Errorf("max_tags must be >= 0, got %d", c.MaxTags)
	case c.DebounceMS < 0:
		return fmt.Errorf("debounce_ms must be >= 0, got %d", c.DebounceMS)
	case c.SearchLimit < 0:
		return fmt.Errorf("search_limit must be >= 0, got %d", c.SearchLimit)
	}
	return nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// MaxTagsOrDefault returns the selection limit for the tag picker.
func (c *Config) MaxTagsOrDefault() int {
	if c == nil || c.MaxTags <= 0 {
		return DefaultMaxTags
	}
	return c.MaxTags
}

// Debounce returns the quiet period before a tag search fires.
func (c *Config) Debounce() time.Duration {
	if c == nil || c.DebounceMS <= 0 {
		return DefaultDebounce
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// SearchLimitOrDefault returns how many tags one search asks for.
func (c *Config) SearchLimitOrDefault() int {
	if c == nil || c.SearchLimit <= 0 {
		return DefaultSearchLimit
	}
	return c.SearchLimit
}

// APIBaseURL returns the configured API root, or fallback when unset.
func (c *Config) APIBaseURL(fallback string) string {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return fallback
	}
	return strings.TrimSpace(c.BaseURL)
}

// LogPath returns where the log file goes. "-" disables logging.
func (c *Config) LogPath() string {
	if c == nil || strings.TrimSpace(c.LogFile) == "" {
		return filepath.Join(Dir(), "quorum.log")
	}
	return strings.TrimSpace(c.LogFile)
}

// LogLevelOrDefault returns the configured zap level name.
func (c *Config) LogLevelOrDefault() string {
	if c == nil || strings.TrimSpace(c.LogLevel) == "" {
		return DefaultLogLevel
	}
	return strings.ToLower(strings.TrimSpace(c.LogLevel))
}
