package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LLM.Small.Backend != "mock" {
		t.Errorf("expected small tier backend 'mock', got %q", cfg.LLM.Small.Backend)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.Logging.Level)
	}
	if cfg.Memory.Backend != "inmemory" {
		t.Errorf("expected memory backend 'inmemory', got %q", cfg.Memory.Backend)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics to be disabled by default")
	}
	if cfg.CognitiveEngine.Budget.HourlyBudgetUSD != 15.0 {
		t.Errorf("expected default hourly budget 15.0, got %v", cfg.CognitiveEngine.Budget.HourlyBudgetUSD)
	}
}

func TestLoadFromPathCreatesDefault(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cogengine", "config.yaml")

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
	if cfg.LLM.Medium.Backend != "mock" {
		t.Errorf("expected medium tier backend 'mock', got %q", cfg.LLM.Medium.Backend)
	}
}

func TestLoadFromPathReadsExisting(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := Default()
	cfg.LLM.Large.Backend = "anthropic"
	cfg.LLM.Large.Model = "claude-opus-4"
	if err := writeConfigFile(configPath, cfg); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loaded, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.LLM.Large.Backend != "anthropic" {
		t.Errorf("expected large tier backend 'anthropic', got %q", loaded.LLM.Large.Backend)
	}
	if loaded.LLM.Large.Model != "claude-opus-4" {
		t.Errorf("expected large tier model 'claude-opus-4', got %q", loaded.LLM.Large.Model)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.LLM.Small.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown backend")
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "shout"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid log level")
	}
}

func TestValidateRejectsUnknownMemoryBackend(t *testing.T) {
	cfg := Default()
	cfg.Memory.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid memory backend")
	}
}

func TestValidateAcceptsDefault(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("expected default config to validate, got: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := expandPath("~/logs/x.log")
	want := filepath.Join(home, "logs", "x.log")
	if got != want {
		t.Errorf("expandPath: got %q, want %q", got, want)
	}
}
