package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Memory facade variants. Both expose the same tool surface; the flat
// variant collapses the graph into a single list of remembered items.
const (
	VariantGraph = "graph"
	VariantFlat  = "flat"
)

// Config holds all configuration for ledgermind-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8480"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (embedded SQLite)
	Database DatabaseConfig `yaml:"database"`

	// Memory subsystem behavior
	Memory MemoryConfig `yaml:"memory"`

	// Embedding endpoint for semantic search. Optional; when unset every
	// search runs in lexical mode.
	Embedder EmbedderConfig `yaml:"embedder"`

	// Anthropic messages API for summary regeneration. Optional; when unset
	// the summary endpoint reports generation as unconfigured.
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// DatabaseConfig holds the embedded store configuration.
type DatabaseConfig struct {
	// Path is the SQLite database file. Created on first start.
	Path string `yaml:"path" env:"MEMORY_DB_PATH" env-default:"data/ledgermind.db"`
	// BusyTimeoutMS is how long a writer waits on a locked database.
	BusyTimeoutMS int `yaml:"busy_timeout_ms" env:"MEMORY_DB_BUSY_TIMEOUT_MS" env-default:"5000"`
}

// MemoryConfig selects the facade variant and the scope applied to
// connections that carry no user identity of their own (stdio MCP).
type MemoryConfig struct {
	// Variant is "graph" or "flat".
	Variant string `yaml:"variant" env:"MEMORY_VARIANT" env-default:"graph"`
	// DefaultUserID scopes stdio sessions, which have no authenticated user.
	DefaultUserID string `yaml:"default_user_id" env:"MEMORY_DEFAULT_USER_ID" env-default:"default"`
}

// EmbedderConfig holds the OpenAI-compatible embeddings endpoint settings.
type EmbedderConfig struct {
	Endpoint       string `yaml:"endpoint" env:"EMBEDDER_ENDPOINT" env-default:""`
	Model          string `yaml:"model" env:"EMBEDDER_MODEL" env-default:"text-embedding-3-small"`
	APIKey         string `yaml:"-" env:"EMBEDDER_API_KEY"` // Secret - not in YAML
	Dimensions     int    `yaml:"dimensions" env:"EMBEDDER_DIMENSIONS" env-default:"1536"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"EMBEDDER_TIMEOUT_SECONDS" env-default:"10"`
}

// IsAvailable returns true if an embedding endpoint is configured.
func (c *EmbedderConfig) IsAvailable() bool {
	return c.Endpoint != "" && c.Model != ""
}

// Timeout returns the per-request embedding timeout.
func (c *EmbedderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AnthropicConfig holds the messages API settings for summary generation.
type AnthropicConfig struct {
	APIKey    string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
	Model     string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-3-5-haiku-latest"`
	MaxTokens int    `yaml:"max_tokens" env:"ANTHROPIC_MAX_TOKENS" env-default:"1024"`
}

// IsAvailable returns true if summary generation is configured.
func (c *AnthropicConfig) IsAvailable() bool {
	return c.APIKey != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config.yaml exists, environment variables alone are
// used. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Memory.Variant != VariantGraph && c.Memory.Variant != VariantFlat {
		return fmt.Errorf("memory.variant must be %q or %q, got %q", VariantGraph, VariantFlat, c.Memory.Variant)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.BusyTimeoutMS <= 0 {
		return fmt.Errorf("database.busy_timeout_ms must be positive")
	}
	if c.Embedder.IsAvailable() && c.Embedder.Dimensions <= 0 {
		return fmt.Errorf("embedder.dimensions must be positive")
	}
	return nil
}
