// Package budget implements hourly, per-model-tier cost budgeting for the
// cognitive engine's model router.
package budget

import (
	"sync"
	"time"

	"github.com/cortexlabs/cogengine/internal/tiers"
)

// Config controls budget allocation and throttling.
type Config struct {
	HourlyBudgetUSD   float64                      `yaml:"hourly_budget_usd" mapstructure:"hourly_budget_usd"`
	CostPer1kTokens   map[tiers.ModelTier]float64  `yaml:"cost_per_1k_tokens" mapstructure:"cost_per_1k_tokens"`
	ThrottleThreshold map[tiers.ModelTier]float64  `yaml:"throttle_threshold" mapstructure:"throttle_threshold"`
}

// DefaultConfig returns the default hourly budget configuration, matching
// the engine's documented defaults.
func DefaultConfig() Config {
	cfg := Config{
		HourlyBudgetUSD:   15.0,
		CostPer1kTokens:   make(map[tiers.ModelTier]float64),
		ThrottleThreshold: make(map[tiers.ModelTier]float64),
	}
	for _, t := range tiers.AllModelTiers() {
		cfg.CostPer1kTokens[t] = tiers.DefaultCostPer1kTokens(t)
		cfg.ThrottleThreshold[t] = tiers.ThrottleThreshold(t)
	}
	return cfg
}

// Status is a read-only snapshot of the current budget window.
type Status struct {
	HourStart       time.Time
	TokensByTier    map[tiers.ModelTier]int64
	CostByTier      map[tiers.ModelTier]float64
	UtilizationTier map[tiers.ModelTier]float64
	TokensByAgent   map[string]int64
}

// Manager tracks token usage against an hourly, per-model-tier budget.
// All operations hold a single mutex; recording never fails.
type Manager struct {
	mu sync.Mutex

	cfg Config

	hourStart     time.Time
	tokensByTier  map[tiers.ModelTier]int64
	tokensByAgent map[string]int64
}

// NewManager creates a Manager with the given config, starting a fresh
// hour window now.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:           cfg,
		hourStart:     time.Now().UTC(),
		tokensByTier:  make(map[tiers.ModelTier]int64),
		tokensByAgent: make(map[string]int64),
	}
}

// RecordUsage atomically adds tokens to the current hour window, resetting
// the window first if it has expired.
func (m *Manager) RecordUsage(tier tiers.ModelTier, tokens int64, agentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybeReset()
	m.tokensByTier[tier] += tokens
	if agentID != "" {
		m.tokensByAgent[agentID] += tokens
	}
}

// ShouldThrottle reports whether a model tier's utilization exceeds its
// configured threshold.
func (m *Manager) ShouldThrottle(tier tiers.ModelTier) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybeReset()
	return m.utilizationLocked(tier) > m.threshold(tier)
}

// RecommendDowngrade returns the next-lower model tier if it is not itself
// throttled, or false if tier is already the lowest or has no safe
// downgrade.
func (m *Manager) RecommendDowngrade(tier tiers.ModelTier) (tiers.ModelTier, bool) {
	lower, ok := tiers.Fallback(tier)
	if !ok {
		return tier, false
	}
	if m.ShouldThrottle(lower) {
		return tier, false
	}
	return lower, true
}

// GetStatus returns a snapshot of the current budget window.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybeReset()

	status := Status{
		HourStart:       m.hourStart,
		TokensByTier:    make(map[tiers.ModelTier]int64, len(m.tokensByTier)),
		CostByTier:      make(map[tiers.ModelTier]float64, len(m.tokensByTier)),
		UtilizationTier: make(map[tiers.ModelTier]float64, len(m.tokensByTier)),
		TokensByAgent:   make(map[string]int64, len(m.tokensByAgent)),
	}
	for _, t := range tiers.AllModelTiers() {
		status.TokensByTier[t] = m.tokensByTier[t]
		status.CostByTier[t] = m.costLocked(t)
		status.UtilizationTier[t] = m.utilizationLocked(t)
	}
	for agent, tokens := range m.tokensByAgent {
		status.TokensByAgent[agent] = tokens
	}
	return status
}

// Reset forces an immediate window reset, clearing all counters.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

// GetTierTokens returns tokens recorded against a tier in the current
// window.
func (m *Manager) GetTierTokens(tier tiers.ModelTier) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybeReset()
	return m.tokensByTier[tier]
}

func (m *Manager) maybeReset() {
	if time.Since(m.hourStart) > time.Hour {
		m.resetLocked()
	}
}

func (m *Manager) resetLocked() {
	m.hourStart = time.Now().UTC()
	m.tokensByTier = make(map[tiers.ModelTier]int64)
	m.tokensByAgent = make(map[string]int64)
}

func (m *Manager) costLocked(tier tiers.ModelTier) float64 {
	costPer1k := m.cfg.CostPer1kTokens[tier]
	return float64(m.tokensByTier[tier]) * costPer1k / 1000.0
}

func (m *Manager) utilizationLocked(tier tiers.ModelTier) float64 {
	share := tiers.AllocationShare(tier)
	allocation := m.cfg.HourlyBudgetUSD * share
	if allocation <= 0 {
		return 0
	}
	return m.costLocked(tier) / allocation
}

func (m *Manager) threshold(tier tiers.ModelTier) float64 {
	if th, ok := m.cfg.ThrottleThreshold[tier]; ok {
		return th
	}
	return tiers.ThrottleThreshold(tier)
}
