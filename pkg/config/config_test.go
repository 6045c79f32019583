package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp moves the test into a fresh temp directory so Load() only sees
// the config.yaml the test writes there.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
	return tmpDir
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := chdirTemp(t)

	yamlContent := `
port: "8480"
env: "test"
database:
  path: "yaml/path.db"
memory:
  variant: "graph"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	os.Unsetenv("MEMORY_DB_PATH")
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MEMORY_VARIANT", "flat")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Env vars override YAML
	if cfg.Port != "9000" {
		t.Errorf("expected Port=9000 (from env), got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected Env=production (from env), got %s", cfg.Env)
	}
	if cfg.Memory.Variant != VariantFlat {
		t.Errorf("expected Memory.Variant=flat (from env), got %s", cfg.Memory.Variant)
	}

	// Version was set
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}

	// YAML value used for database path (proves YAML was read)
	if cfg.Database.Path != "yaml/path.db" {
		t.Errorf("expected Database.Path=yaml/path.db (from yaml), got %s", cfg.Database.Path)
	}
}

func TestLoad_EnvOnlyWithoutYAML(t *testing.T) {
	chdirTemp(t)

	os.Unsetenv("PORT")
	os.Unsetenv("MEMORY_VARIANT")
	t.Setenv("MEMORY_DB_PATH", "/tmp/env-only.db")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/env-only.db" {
		t.Errorf("expected Database.Path from env, got %s", cfg.Database.Path)
	}
	if cfg.Memory.Variant != VariantGraph {
		t.Errorf("expected default variant graph, got %s", cfg.Memory.Variant)
	}
	if cfg.Port != "8480" {
		t.Errorf("expected default Port=8480, got %s", cfg.Port)
	}
	if cfg.Database.BusyTimeoutMS != 5000 {
		t.Errorf("expected default BusyTimeoutMS=5000, got %d", cfg.Database.BusyTimeoutMS)
	}
}

func TestLoad_RejectsUnknownVariant(t *testing.T) {
	chdirTemp(t)

	t.Setenv("MEMORY_VARIANT", "hybrid")

	_, err := Load("dev")
	if err == nil {
		t.Fatal("expected error for unknown memory variant")
	}
	if !strings.Contains(err.Error(), "memory.variant") {
		t.Errorf("expected variant error, got: %v", err)
	}
}

func TestLoad_SecretsComeFromEnvOnly(t *testing.T) {
	tmpDir := chdirTemp(t)

	// API keys carry yaml:"-" so a value in the file must be ignored.
	yamlContent := `
anthropic:
  model: "claude-3-5-haiku-latest"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("EMBEDDER_API_KEY", "sk-embed-test")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "sk-ant-test" {
		t.Errorf("expected Anthropic APIKey from env, got %q", cfg.Anthropic.APIKey)
	}
	if cfg.Embedder.APIKey != "sk-embed-test" {
		t.Errorf("expected Embedder APIKey from env, got %q", cfg.Embedder.APIKey)
	}
	if !cfg.Anthropic.IsAvailable() {
		t.Error("expected Anthropic.IsAvailable() with key set")
	}
}

func TestEmbedderConfig_IsAvailable(t *testing.T) {
	tests := []struct {
		name string
		cfg  EmbedderConfig
		want bool
	}{
		{
			name: "endpoint and model set",
			cfg:  EmbedderConfig{Endpoint: "http://localhost:8080/v1", Model: "nomic-embed-text"},
			want: true,
		},
		{
			name: "missing endpoint",
			cfg:  EmbedderConfig{Model: "nomic-embed-text"},
			want: false,
		},
		{
			name: "missing model",
			cfg:  EmbedderConfig{Endpoint: "http://localhost:8080/v1"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsAvailable(); got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
