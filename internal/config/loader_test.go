package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.Format != "auto" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "auto")
	}

	if !cfg.Oracle.Enabled {
		t.Error("Oracle.Enabled = false, want true")
	}
	if cfg.Oracle.Model != "gpt-4o-mini" {
		t.Errorf("Oracle.Model = %q, want %q", cfg.Oracle.Model, "gpt-4o-mini")
	}
	if cfg.Oracle.Timeout != "45s" {
		t.Errorf("Oracle.Timeout = %q, want %q", cfg.Oracle.Timeout, "45s")
	}

	if cfg.Defaults.Quality != "standard" {
		t.Errorf("Defaults.Quality = %q, want %q", cfg.Defaults.Quality, "standard")
	}
	if cfg.Defaults.Style != "cinematic" {
		t.Errorf("Defaults.Style = %q, want %q", cfg.Defaults.Style, "cinematic")
	}
	if cfg.Defaults.MaxCost != 5.0 {
		t.Errorf("Defaults.MaxCost = %v, want %v", cfg.Defaults.MaxCost, 5.0)
	}

	if cfg.Executor.Workers != 3 {
		t.Errorf("Executor.Workers = %d, want %d", cfg.Executor.Workers, 3)
	}
	if cfg.Executor.MaxAttempts != 3 {
		t.Errorf("Executor.MaxAttempts = %d, want %d", cfg.Executor.MaxAttempts, 3)
	}

	if cfg.Runlog.Path != ".reelforge/runs.db" {
		t.Errorf("Runlog.Path = %q, want %q", cfg.Runlog.Path, ".reelforge/runs.db")
	}
}

func TestLoader_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
log:
  level: debug
defaults:
  quality: premium
  max_cost: 2.5
executor:
  workers: 5
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := NewLoader().WithConfigFile(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Defaults.Quality != "premium" {
		t.Errorf("Defaults.Quality = %q, want %q", cfg.Defaults.Quality, "premium")
	}
	if cfg.Defaults.MaxCost != 2.5 {
		t.Errorf("Defaults.MaxCost = %v, want %v", cfg.Defaults.MaxCost, 2.5)
	}
	if cfg.Executor.Workers != 5 {
		t.Errorf("Executor.Workers = %d, want %d", cfg.Executor.Workers, 5)
	}
	// Keys not in the file keep their defaults.
	if cfg.Defaults.Style != "cinematic" {
		t.Errorf("Defaults.Style = %q, want default %q", cfg.Defaults.Style, "cinematic")
	}
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("REELFORGE_DEFAULTS_STYLE", "pika")
	t.Setenv("REELFORGE_EXECUTOR_WORKERS", "7")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Defaults.Style != "pika" {
		t.Errorf("Defaults.Style = %q, want %q", cfg.Defaults.Style, "pika")
	}
	if cfg.Executor.Workers != 7 {
		t.Errorf("Executor.Workers = %d, want %d", cfg.Executor.Workers, 7)
	}
}

func TestLoader_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-fallback-key")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Oracle.APIKey != "sk-test-fallback-key" {
		t.Errorf("Oracle.APIKey = %q, want fallback from OPENAI_API_KEY", cfg.Oracle.APIKey)
	}
}

func TestLoader_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := NewLoader().WithConfigFile(path).Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}
