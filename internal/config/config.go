// Package config loads the advice server configuration from a TOML file.
// Secrets never live in the file; they come from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig `toml:"server"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// LLM client configuration
	LLM LLMConfig `toml:"llm"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`

	// Card role dataset configuration
	Cards CardsConfig `toml:"cards"`

	// Run log configuration
	RunLog RunLogConfig `toml:"run_log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr            string `toml:"addr"`             // Listen address (e.g., ":8080")
	ReadTimeout     string `toml:"read_timeout"`     // Request read timeout (e.g., "15s")
	WriteTimeout    string `toml:"write_timeout"`    // Response write timeout
	ShutdownTimeout string `toml:"shutdown_timeout"` // Graceful shutdown window
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`         // SQLite file path, ":memory:" for ephemeral
	AutoMigrate bool   `toml:"auto_migrate"` // Run migrations on startup
}

// LLMConfig contains model client settings. The API key is read from the
// OPENAI_API_KEY environment variable, never from this file.
type LLMConfig struct {
	BaseURL     string `toml:"base_url"`     // OpenAI-compatible API base URL
	CallTimeout string `toml:"call_timeout"` // Per-call timeout (e.g., "30s")
	DefaultTier string `toml:"default_tier"` // Tier used when a request names none
}

// CacheConfig contains advice cache settings.
type CacheConfig struct {
	Backend       string `toml:"backend"`        // "sqlite" or "memory"
	TTL           string `toml:"ttl"`            // Cache TTL (e.g., "24h")
	PurgeInterval string `toml:"purge_interval"` // How often expired rows are removed
}

// CardsConfig contains card role dataset settings.
type CardsConfig struct {
	OverridesPath string `toml:"overrides_path"` // Optional JSON role overrides
	Watch         bool   `toml:"watch"`          // Hot-reload the overrides file
}

// RunLogConfig contains run logger settings.
type RunLogConfig struct {
	BufferSize int `toml:"buffer_size"` // Queued entries before drops
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "60s",
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Path:        "data/advice.db",
			AutoMigrate: true,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			CallTimeout: "30s",
			DefaultTier: "mini",
		},
		Cache: CacheConfig{
			Backend:       "sqlite",
			TTL:           "24h",
			PurgeInterval: "1h",
		},
		Cards: CardsConfig{
			OverridesPath: "",
			Watch:         false,
		},
		RunLog: RunLogConfig{
			BufferSize: 256,
		},
	}
}

// Load reads the configuration from the given path. A missing file yields
// the default configuration rather than an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"read timeout":     c.Server.ReadTimeout,
		"write timeout":    c.Server.WriteTimeout,
		"shutdown timeout": c.Server.ShutdownTimeout,
		"call timeout":     c.LLM.CallTimeout,
		"cache TTL":        c.Cache.TTL,
		"purge interval":   c.Cache.PurgeInterval,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}

	if c.Cache.Backend != "sqlite" && c.Cache.Backend != "memory" {
		return fmt.Errorf("invalid cache backend %q", c.Cache.Backend)
	}
	if c.RunLog.BufferSize < 0 {
		return fmt.Errorf("run log buffer size cannot be negative: %d", c.RunLog.BufferSize)
	}
	return nil
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// GetPurgeInterval returns the cache purge interval as a duration.
func (c *Config) GetPurgeInterval() (time.Duration, error) {
	return time.ParseDuration(c.Cache.PurgeInterval)
}

// GetCallTimeout returns the model call timeout as a duration.
func (c *Config) GetCallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.LLM.CallTimeout)
}

// GetServerTimeouts returns the read, write and shutdown timeouts.
func (c *Config) GetServerTimeouts() (read, write, shutdown time.Duration, err error) {
	if read, err = time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return 0, 0, 0, err
	}
	if write, err = time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return 0, 0, 0, err
	}
	if shutdown, err = time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return 0, 0, 0, err
	}
	return read, write, shutdown, nil
}
