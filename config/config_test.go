package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiawrai2609/commant-center/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8686", cfg.Server.Addr)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, 2*time.Minute, cfg.Relay.Timeout)
	assert.Nil(t, cfg.ModelRegistry)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commant.yaml")
	content := `
server:
  addr: ":9090"
store:
  nats_url: "nats://localhost:4222"
relay:
  timeout: 90s
  retryable_statuses: [429, 503]
model_registry:
  capabilities:
    scanning:
      preferred: ["llama-8b-free"]
      fallback: ["gemma-9b-free"]
  endpoints:
    llama-8b-free:
      provider: openrouter
      model: "meta-llama/llama-3.1-8b-instruct:free"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "nats://localhost:4222", cfg.Store.NATSURL)
	// Unset fields keep their defaults.
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, 90*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, []int{429, 503}, cfg.Relay.RetryableStatuses)

	require.NotNil(t, cfg.ModelRegistry)
	ep := cfg.ModelRegistry.Endpoints["llama-8b-free"]
	require.NotNil(t, ep)
	assert.Equal(t, "openrouter", ep.Provider)
	assert.Equal(t, "meta-llama/llama-3.1-8b-instruct:free", ep.Model)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"no store backend", func(c *Config) { c.Store.NATSURL = ""; c.Store.DataDir = "" }},
		{"zero timeout", func(c *Config) { c.Relay.Timeout = 0 }},
		{"bad retryable status", func(c *Config) { c.Relay.RetryableStatuses = []int{200} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("COMMANT_ADDR", ":7070")
	t.Setenv("COMMANT_NATS_URL", "nats://queue:4222")
	t.Setenv("COMMANT_DATA_DIR", "/var/lib/commant")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "nats://queue:4222", cfg.Store.NATSURL)
	assert.Equal(t, "/var/lib/commant", cfg.Store.DataDir)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Server: ServerConfig{Addr: ":9999"},
		Relay:  RelayConfig{Timeout: time.Minute},
	})

	assert.Equal(t, ":9999", base.Server.Addr)
	assert.Equal(t, time.Minute, base.Relay.Timeout)
	// Untouched fields survive the merge.
	assert.Equal(t, "data", base.Store.DataDir)
}

func TestRegistryOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelRegistry = &model.RegistryConfig{
		Endpoints: map[string]*model.EndpointConfig{
			"house-model": {Provider: "openai", Model: "gpt-4o-mini"},
		},
	}

	registry := cfg.Registry()
	ep := registry.GetEndpoint("house-model")
	require.NotNil(t, ep)
	assert.Equal(t, "openai", ep.Provider)

	// Built-in endpoints remain alongside the override.
	assert.NotNil(t, registry.GetEndpoint("claude-sonnet"))
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":4321"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":4321", loaded.Server.Addr)
	assert.Equal(t, cfg.Relay.Timeout, loaded.Relay.Timeout)
}
