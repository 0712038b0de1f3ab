// Package config provides configuration management for the cognitive
// engine.
//
// # Overview
//
// The config package uses Viper to load configuration from YAML files and
// environment variables. It provides a type-safe configuration structure with
// validation, default values, and automatic file creation.
//
// # Configuration File
//
// The configuration is stored at ~/.cogengine/config.yaml and is
// automatically created with sensible defaults on first use.
//
// # Environment Variables
//
// All configuration values can be overridden using environment variables
// with the COGENGINE_ prefix. Nested fields are separated by underscores.
//
// Examples:
//   - COGENGINE_LLM_SMALL_BACKEND=anthropic
//   - COGENGINE_LLM_LARGE_API_KEY=sk-ant-...
//   - COGENGINE_LOGGING_LEVEL=debug
//   - COGENGINE_METRICS_ENABLED=true
//
// # Usage Example
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/cortexlabs/cogengine/internal/config"
//	)
//
//	func main() {
//	    cfg, err := config.Load()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := cfg.Validate(); err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("small tier backend: %s", cfg.LLM.Small.Backend)
//	}
//
// # Security Best Practices
//
// API keys should be stored in environment variables rather than in the
// config file to prevent accidental exposure:
//
//	export COGENGINE_LLM_LARGE_API_KEY=sk-ant-...
//
// # Configuration Sections
//
//   - LLM: per-model-tier backend selection (anthropic, openai, mock)
//   - Logging: log level and output file configuration
//   - CognitiveEngine: budget throttling and background synthesis cadence
//   - Memory: relevant-memory context provider backend (redis, inmemory)
//   - Metrics: Prometheus metrics endpoint
//   - A2A: Agent2Agent server surface
//
// # Path Expansion
//
// The package automatically expands ~ to the user's home directory in
// all path configurations.
package config
