// Package tiers defines the static catalog of cognitive processing tiers.
package tiers

import "fmt"

// CognitiveTier names a level of cognitive effort, ordered from cheapest
// to most considered.
type CognitiveTier int

const (
	Reflex CognitiveTier = iota
	Reactive
	Deliberate
	Analytical
	Comprehensive
)

// String returns the canonical name of the tier.
func (t CognitiveTier) String() string {
	switch t {
	case Reflex:
		return "REFLEX"
	case Reactive:
		return "REACTIVE"
	case Deliberate:
		return "DELIBERATE"
	case Analytical:
		return "ANALYTICAL"
	case Comprehensive:
		return "COMPREHENSIVE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// ModelTier names a backend model class, ordered from cheapest to most
// capable.
type ModelTier int

const (
	Small ModelTier = iota
	Medium
	Large
)

// String returns the canonical name of the model tier.
func (t ModelTier) String() string {
	switch t {
	case Small:
		return "SMALL"
	case Medium:
		return "MEDIUM"
	case Large:
		return "LARGE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// AllModelTiers lists every model tier, ordered cheapest first.
func AllModelTiers() []ModelTier {
	return []ModelTier{Small, Medium, Large}
}

// TierConfig is the fixed, build-time configuration for one cognitive tier.
type TierConfig struct {
	Tier             CognitiveTier
	MaxTokens        int
	TargetLatencyMs  int
	MaxContextTokens int
	RunsParallel     bool
	ModelTier        ModelTier
	TimeoutMs        int
}

var catalog = map[CognitiveTier]TierConfig{
	Reflex: {
		Tier: Reflex, MaxTokens: 150, TargetLatencyMs: 200,
		MaxContextTokens: 100, RunsParallel: true, ModelTier: Small, TimeoutMs: 500,
	},
	Reactive: {
		Tier: Reactive, MaxTokens: 400, TargetLatencyMs: 500,
		MaxContextTokens: 300, RunsParallel: true, ModelTier: Medium, TimeoutMs: 1000,
	},
	Deliberate: {
		Tier: Deliberate, MaxTokens: 1200, TargetLatencyMs: 2000,
		MaxContextTokens: 600, RunsParallel: false, ModelTier: Large, TimeoutMs: 3000,
	},
	Analytical: {
		Tier: Analytical, MaxTokens: 2500, TargetLatencyMs: 5000,
		MaxContextTokens: 1000, RunsParallel: false, ModelTier: Large, TimeoutMs: 7000,
	},
	Comprehensive: {
		Tier: Comprehensive, MaxTokens: 4000, TargetLatencyMs: 10000,
		MaxContextTokens: 1500, RunsParallel: false, ModelTier: Large, TimeoutMs: 12000,
	},
}

// Catalog exposes the fixed cognitive-tier table.
type Catalog struct{}

// NewCatalog returns the static tier catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// GetTier returns the configuration for a cognitive tier.
func (c *Catalog) GetTier(t CognitiveTier) (TierConfig, bool) {
	cfg, ok := catalog[t]
	return cfg, ok
}

// ModelTierFor returns the model tier a cognitive tier maps to by default.
func (c *Catalog) ModelTierFor(t CognitiveTier) ModelTier {
	return catalog[t].ModelTier
}

// AllocationShare returns the fraction of the hourly budget reserved for a
// model tier.
func AllocationShare(t ModelTier) float64 {
	switch t {
	case Small:
		return 0.10
	case Medium:
		return 0.25
	case Large:
		return 0.50
	default:
		return 0
	}
}

// ThrottleThreshold returns the default utilization fraction above which a
// model tier should be throttled.
func ThrottleThreshold(t ModelTier) float64 {
	switch t {
	case Small:
		return 0.95
	case Medium:
		return 0.85
	case Large:
		return 0.75
	default:
		return 1.0
	}
}

// DefaultCostPer1kTokens returns the default per-1000-token cost in USD for
// a model tier.
func DefaultCostPer1kTokens(t ModelTier) float64 {
	switch t {
	case Small:
		return 0.0002
	case Medium:
		return 0.0012
	case Large:
		return 0.0049
	default:
		return 0
	}
}

// Fallback returns the next tier down, for health/timeout fallback, or
// false if there is none.
func Fallback(t ModelTier) (ModelTier, bool) {
	switch t {
	case Large:
		return Medium, true
	case Medium:
		return Small, true
	default:
		return Small, false
	}
}
