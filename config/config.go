// Package config provides configuration loading and management for the
// commant-center daemon and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mohiawrai2609/commant-center/model"
)

// Config represents the complete application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Relay  RelayConfig  `yaml:"relay"`

	// ModelRegistry overrides the built-in capability and endpoint tables.
	// This section is hot-reloaded by the config watcher.
	ModelRegistry *model.RegistryConfig `yaml:"model_registry,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `yaml:"addr"`
}

// StoreConfig selects the Day Bucket backend.
type StoreConfig struct {
	// NATSURL is the JetStream server URL (empty = local file store).
	NATSURL string `yaml:"nats_url"`
	// DataDir is the local fallback directory for day files.
	DataDir string `yaml:"data_dir"`
}

// RelayConfig tunes the model-fallback relay.
type RelayConfig struct {
	// Timeout is the per-candidate request budget.
	Timeout time.Duration `yaml:"timeout"`
	// RetryableStatuses overrides the HTTP statuses that advance to the next
	// fallback candidate (empty = built-in policy).
	RetryableStatuses []int `yaml:"retryable_statuses"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8686",
		},
		Store: StoreConfig{
			NATSURL: "",
			DataDir: "data",
		},
		Relay: RelayConfig{
			Timeout:           2 * time.Minute,
			RetryableStatuses: nil,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Store.NATSURL == "" && c.Store.DataDir == "" {
		return fmt.Errorf("store requires either nats_url or data_dir")
	}
	if c.Relay.Timeout <= 0 {
		return fmt.Errorf("relay.timeout must be positive")
	}
	for _, s := range c.Relay.RetryableStatuses {
		if s < 400 || s > 599 {
			return fmt.Errorf("relay.retryable_statuses entry %d is not an HTTP error status", s)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	if other.Store.NATSURL != "" {
		c.Store.NATSURL = other.Store.NATSURL
	}
	if other.Store.DataDir != "" {
		c.Store.DataDir = other.Store.DataDir
	}

	if other.Relay.Timeout != 0 {
		c.Relay.Timeout = other.Relay.Timeout
	}
	if len(other.Relay.RetryableStatuses) > 0 {
		c.Relay.RetryableStatuses = other.Relay.RetryableStatuses
	}

	if other.ModelRegistry != nil {
		c.ModelRegistry = other.ModelRegistry
	}
}

// ApplyEnv overlays environment variable overrides.
// COMMANT_ADDR, COMMANT_NATS_URL, and COMMANT_DATA_DIR take precedence over
// file-based settings so deployments can reconfigure without editing YAML.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("COMMANT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("COMMANT_NATS_URL"); v != "" {
		c.Store.NATSURL = v
	}
	if v := os.Getenv("COMMANT_DATA_DIR"); v != "" {
		c.Store.DataDir = v
	}
}

// Registry builds the model registry from this config. Without a
// model_registry section the built-in defaults are used; with one, the
// overrides merge on top of the defaults.
func (c *Config) Registry() *model.Registry {
	registry := model.NewDefaultRegistry()
	if c.ModelRegistry != nil {
		registry.MergeFromConfig(c.ModelRegistry)
	}
	return registry
}
