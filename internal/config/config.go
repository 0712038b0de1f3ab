// Package config loads the cognitive engine's configuration from
// ~/.cogengine/config.yaml, with environment variable overrides, the
// way the rest of the stack loads its own.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration the cognitive-engine CLI needs: which
// LLM backends back each model tier, how the engine logs, how it's
// budgeted, how often it runs background synthesis, and where it
// persists and exposes memory/metrics.
type Config struct {
	LLM             LLMConfig             `mapstructure:"llm" yaml:"llm"`
	Logging         LoggingConfig         `mapstructure:"logging" yaml:"logging"`
	CognitiveEngine CognitiveEngineConfig `mapstructure:"cognitive_engine" yaml:"cognitive_engine"`
	Memory          MemoryConfig          `mapstructure:"memory" yaml:"memory"`
	Metrics         MetricsConfig         `mapstructure:"metrics" yaml:"metrics"`
	A2A             A2AConfig             `mapstructure:"a2a" yaml:"a2a"`
}

// LLMConfig maps each model tier to the backend that serves it.
type LLMConfig struct {
	Small  ProviderConfig `mapstructure:"small" yaml:"small"`
	Medium ProviderConfig `mapstructure:"medium" yaml:"medium"`
	Large  ProviderConfig `mapstructure:"large" yaml:"large"`
}

// ProviderConfig configures one model tier's backend.
type ProviderConfig struct {
	// Backend is "anthropic", "openai", or "mock".
	Backend string `mapstructure:"backend" yaml:"backend"`
	Model   string `mapstructure:"model" yaml:"model"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// MemoryConfig configures the relevant-memory context provider.
type MemoryConfig struct {
	// Backend is "redis" or "inmemory".
	Backend string `mapstructure:"backend" yaml:"backend"`
	Addr    string `mapstructure:"addr" yaml:"addr,omitempty"`
	DB      int    `mapstructure:"db" yaml:"db,omitempty"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// A2AConfig configures the Agent2Agent server surface.
type A2AConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port"`
}

// Default returns a Config with sensible default values: mock LLM
// backends, in-memory context, metrics disabled.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".cogengine")

	return &Config{
		LLM: LLMConfig{
			Small:  ProviderConfig{Backend: "mock"},
			Medium: ProviderConfig{Backend: "mock"},
			Large:  ProviderConfig{Backend: "mock"},
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "logs", "cognitive-engine.log"),
		},
		CognitiveEngine: DefaultCognitiveEngineConfig(),
		Memory: MemoryConfig{
			Backend: "inmemory",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		A2A: A2AConfig{
			Enabled: false,
			Port:    8080,
		},
	}
}

// Load reads configuration from the default location
// (~/.cogengine/config.yaml) and merges with environment variables. If
// no config file exists, it creates one with default values.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, ".cogengine", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path and merges
// with environment variables. If the file doesn't exist, it creates one
// with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("COGENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys omitted from the file (omitempty) are unknown to viper, and
	// AutomaticEnv alone does not apply to them on Unmarshal.
	for _, key := range []string{"llm.small.api_key", "llm.medium.api_key", "llm.large.api_key", "memory.addr", "memory.db"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)
	return &cfg, nil
}

// Save writes the current configuration to the default config file
// location.
func (c *Config) Save() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return writeConfigFile(filepath.Join(homeDir, ".cogengine", "config.yaml"), c)
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validBackends := map[string]bool{"anthropic": true, "openai": true, "mock": true, "": true}
	for name, pc := range map[string]ProviderConfig{"small": c.LLM.Small, "medium": c.LLM.Medium, "large": c.LLM.Large} {
		if !validBackends[pc.Backend] {
			return fmt.Errorf("llm.%s.backend %q must be one of: anthropic, openai, mock", name, pc.Backend)
		}
	}

	if c.Memory.Backend != "redis" && c.Memory.Backend != "inmemory" && c.Memory.Backend != "" {
		return fmt.Errorf("memory.backend %q must be one of: redis, inmemory", c.Memory.Backend)
	}

	return nil
}

func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
