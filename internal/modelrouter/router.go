// Package modelrouter dispatches cognitive-tier inference requests to the
// appropriate model tier, applying budget-aware downgrade, health-aware
// fallback, and per-tier timeouts.
package modelrouter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cortexlabs/cogengine/internal/budget"
	"github.com/cortexlabs/cogengine/internal/logging"
	"github.com/cortexlabs/cogengine/internal/modelclient"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

const maxHistory = 100

// Decision records one routing outcome for observability.
type Decision struct {
	CognitiveTier   tiers.CognitiveTier
	TargetModelTier tiers.ModelTier
	ActualModelTier tiers.ModelTier
	WasDowngraded   bool
	DowngradeReason string
	Timestamp       time.Time
}

// Status is a read-only snapshot of the router's state.
type Status struct {
	Health          map[tiers.ModelTier]bool
	Budget          budget.Status
	LastHealthCheck *time.Time
	ActiveRequests  int
}

// Router routes cognitive-tier inference requests to model-tier clients.
type Router struct {
	catalog *tiers.Catalog
	budget  *budget.Manager
	clients map[tiers.ModelTier]modelclient.Client
	log     *logging.Logger

	mu              sync.Mutex
	health          map[tiers.ModelTier]bool
	lastHealthCheck *time.Time
	activeRequests  int
	history         []Decision
}

// New creates a Router over a set of per-model-tier clients and a budget
// manager. All model tiers start healthy.
func New(clients map[tiers.ModelTier]modelclient.Client, budgetMgr *budget.Manager, log *logging.Logger) *Router {
	if log == nil {
		log = logging.Global()
	}
	health := make(map[tiers.ModelTier]bool, len(tiers.AllModelTiers()))
	for _, t := range tiers.AllModelTiers() {
		health[t] = true
	}
	return &Router{
		catalog: tiers.NewCatalog(),
		budget:  budgetMgr,
		clients: clients,
		log:     log.WithComponent("modelrouter"),
		health:  health,
	}
}

// Route selects a model tier for a cognitive tier, invokes the client
// under a per-tier deadline, records usage, and returns the response.
func (r *Router) Route(ctx context.Context, cognitiveTier tiers.CognitiveTier, req modelclient.InferenceRequest, agentID string) (modelclient.InferenceResponse, error) {
	r.mu.Lock()
	r.activeRequests++
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.activeRequests--
		r.mu.Unlock()
	}()

	tierCfg, ok := r.catalog.GetTier(cognitiveTier)
	if !ok {
		return modelclient.InferenceResponse{}, fmt.Errorf("modelrouter: unknown cognitive tier %v", cognitiveTier)
	}
	target := tierCfg.ModelTier

	actual, reason := r.selectTier(target)
	r.recordDecision(Decision{
		CognitiveTier:   cognitiveTier,
		TargetModelTier: target,
		ActualModelTier: actual,
		WasDowngraded:   actual != target,
		DowngradeReason: reason,
		Timestamp:       time.Now().UTC(),
	})
	if reason != "" {
		r.log.Info("Routing %s: %s -> %s (%s)", cognitiveTier, target, actual, reason)
	}

	if req.MaxTokens > tierCfg.MaxTokens || req.MaxTokens == 0 {
		req.MaxTokens = tierCfg.MaxTokens
	}

	client, ok := r.clients[actual]
	if !ok {
		return modelclient.InferenceResponse{}, ErrNoModelAvailable
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(tierCfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	resp, err := client.Generate(callCtx, req)
	if err == nil {
		r.budget.RecordUsage(actual, int64(resp.TotalTokens), agentID)
		return resp, nil
	}

	if callCtx.Err() == context.DeadlineExceeded {
		r.log.Warn("Timeout on %s, trying fallback", actual)
		return r.handleTimeout(ctx, cognitiveTier, req, agentID, actual)
	}

	r.mu.Lock()
	r.health[actual] = false
	r.mu.Unlock()
	return modelclient.InferenceResponse{}, err
}

// selectTier applies the budget-downgrade-then-health-fallback rule. Only
// one tier step is taken in either direction.
func (r *Router) selectTier(target tiers.ModelTier) (tiers.ModelTier, string) {
	if r.budget.ShouldThrottle(target) {
		if downgrade, ok := r.budget.RecommendDowngrade(target); ok {
			return downgrade, "budget_throttle"
		}
	}

	r.mu.Lock()
	healthy := r.health[target]
	r.mu.Unlock()
	if !healthy {
		if fallback, ok := r.healthyFallback(target); ok {
			return fallback, "unhealthy"
		}
		r.log.Warn("No healthy fallback for %s", target)
	}

	return target, ""
}

func (r *Router) healthyFallback(tier tiers.ModelTier) (tiers.ModelTier, bool) {
	fallback, ok := tiers.Fallback(tier)
	if !ok {
		return tier, false
	}
	r.mu.Lock()
	healthy := r.health[fallback]
	r.mu.Unlock()
	if healthy {
		return fallback, true
	}
	return tier, false
}

func (r *Router) handleTimeout(ctx context.Context, cognitiveTier tiers.CognitiveTier, req modelclient.InferenceRequest, agentID string, failedTier tiers.ModelTier) (modelclient.InferenceResponse, error) {
	fallback, ok := tiers.Fallback(failedTier)
	if !ok {
		return modelclient.InferenceResponse{}, fmt.Errorf("%w: %s after timeout", ErrNoModelAvailable, cognitiveTier)
	}
	client, ok := r.clients[fallback]
	if !ok {
		return modelclient.InferenceResponse{}, fmt.Errorf("%w: %s after timeout", ErrNoModelAvailable, cognitiveTier)
	}
	resp, err := client.Generate(ctx, req)
	if err != nil {
		return modelclient.InferenceResponse{}, err
	}
	r.budget.RecordUsage(fallback, int64(resp.TotalTokens), agentID)
	return resp, nil
}

// CheckHealth refreshes cached health for every model tier.
func (r *Router) CheckHealth(ctx context.Context) map[tiers.ModelTier]bool {
	results := make(map[tiers.ModelTier]bool, len(r.clients))
	for tier, client := range r.clients {
		healthy := client.HealthCheck(ctx)
		results[tier] = healthy
		r.mu.Lock()
		r.health[tier] = healthy
		r.mu.Unlock()
	}
	now := time.Now().UTC()
	r.mu.Lock()
	r.lastHealthCheck = &now
	r.mu.Unlock()
	return results
}

// SetTierHealth manually overrides a tier's health, for tests.
func (r *Router) SetTierHealth(tier tiers.ModelTier, healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.health[tier] = healthy
}

// GetStatus returns a snapshot of router state.
func (r *Router) GetStatus() Status {
	r.mu.Lock()
	health := make(map[tiers.ModelTier]bool, len(r.health))
	for t, h := range r.health {
		health[t] = h
	}
	lastCheck := r.lastHealthCheck
	active := r.activeRequests
	r.mu.Unlock()

	return Status{
		Health:          health,
		Budget:          r.budget.GetStatus(),
		LastHealthCheck: lastCheck,
		ActiveRequests:  active,
	}
}

func (r *Router) recordDecision(d Decision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, d)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
}

// GetRoutingHistory returns up to limit most recent routing decisions.
func (r *Router) GetRoutingHistory(limit int) []Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.history) {
		limit = len(r.history)
	}
	out := make([]Decision, limit)
	copy(out, r.history[len(r.history)-limit:])
	return out
}

// Close closes every underlying model client.
func (r *Router) Close() error {
	var firstErr error
	for _, client := range r.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
