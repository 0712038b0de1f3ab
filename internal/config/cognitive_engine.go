package config

import (
	"time"

	"github.com/cortexlabs/cogengine/internal/budget"
	"github.com/cortexlabs/cogengine/internal/mind"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

// CognitiveEngineConfig aggregates the configuration surfaces of the
// cognitive engine: budget throttling and background processing
// cadence.
type CognitiveEngineConfig struct {
	Budget     BudgetConfig     `mapstructure:"budget" yaml:"budget"`
	Background BackgroundConfig `mapstructure:"background" yaml:"background"`
}

// DefaultCognitiveEngineConfig returns the documented defaults for both
// budget and background processing.
func DefaultCognitiveEngineConfig() CognitiveEngineConfig {
	return CognitiveEngineConfig{
		Budget:     DefaultBudgetConfig(),
		Background: DefaultBackgroundConfigSection(),
	}
}

// BudgetConfig mirrors budget.Config with mapstructure/yaml tags for
// file-driven configuration. Per-tier maps are left empty by default;
// ToBudgetConfig fills gaps from the engine's built-in defaults.
type BudgetConfig struct {
	HourlyBudgetUSD   float64            `mapstructure:"hourly_budget_usd" yaml:"hourly_budget_usd"`
	CostPer1kTokens   map[string]float64 `mapstructure:"cost_per_1k_tokens" yaml:"cost_per_1k_tokens,omitempty"`
	ThrottleThreshold map[string]float64 `mapstructure:"throttle_threshold" yaml:"throttle_threshold,omitempty"`
}

// DefaultBudgetConfig returns the default $15/hour budget configuration.
func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{HourlyBudgetUSD: 15.0}
}

// ToBudgetConfig converts to the budget package's runtime Config,
// defaulting any per-tier overrides that weren't set in the file.
func (c BudgetConfig) ToBudgetConfig() budget.Config {
	cfg := budget.DefaultConfig()
	if c.HourlyBudgetUSD > 0 {
		cfg.HourlyBudgetUSD = c.HourlyBudgetUSD
	}
	for name, cost := range c.CostPer1kTokens {
		if tier, ok := modelTierFromName(name); ok {
			cfg.CostPer1kTokens[tier] = cost
		}
	}
	for name, threshold := range c.ThrottleThreshold {
		if tier, ok := modelTierFromName(name); ok {
			cfg.ThrottleThreshold[tier] = threshold
		}
	}
	return cfg
}

// BackgroundConfig mirrors mind.BackgroundConfig with file-friendly
// duration fields expressed in seconds/minutes.
type BackgroundConfig struct {
	CleanupIntervalSeconds        float64 `mapstructure:"cleanup_interval_seconds" yaml:"cleanup_interval_seconds"`
	SynthesisCheckIntervalSeconds float64 `mapstructure:"synthesis_check_interval_seconds" yaml:"synthesis_check_interval_seconds"`
	MaxThoughtAgeMinutes          float64 `mapstructure:"max_thought_age_minutes" yaml:"max_thought_age_minutes"`
}

// DefaultBackgroundConfigSection returns the reference cadence.
func DefaultBackgroundConfigSection() BackgroundConfig {
	d := mind.DefaultBackgroundConfig()
	return BackgroundConfig{
		CleanupIntervalSeconds:        d.CleanupInterval.Seconds(),
		SynthesisCheckIntervalSeconds: d.SynthesisCheckInterval.Seconds(),
		MaxThoughtAgeMinutes:          d.MaxThoughtAge.Minutes(),
	}
}

// ToMindBackgroundConfig converts to mind.BackgroundConfig, falling back
// to the built-in defaults for any zero-valued field.
func (c BackgroundConfig) ToMindBackgroundConfig() mind.BackgroundConfig {
	d := mind.DefaultBackgroundConfig()
	cfg := d
	if c.CleanupIntervalSeconds > 0 {
		cfg.CleanupInterval = time.Duration(c.CleanupIntervalSeconds * float64(time.Second))
	}
	if c.SynthesisCheckIntervalSeconds > 0 {
		cfg.SynthesisCheckInterval = time.Duration(c.SynthesisCheckIntervalSeconds * float64(time.Second))
	}
	if c.MaxThoughtAgeMinutes > 0 {
		cfg.MaxThoughtAge = time.Duration(c.MaxThoughtAgeMinutes * float64(time.Minute))
	}
	return cfg
}

func modelTierFromName(name string) (tiers.ModelTier, bool) {
	switch name {
	case "small":
		return tiers.Small, true
	case "medium":
		return tiers.Medium, true
	case "large":
		return tiers.Large, true
	default:
		return 0, false
	}
}
