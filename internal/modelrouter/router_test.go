package modelrouter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexlabs/cogengine/internal/budget"
	"github.com/cortexlabs/cogengine/internal/modelclient"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

func newTestRouter() *Router {
	clients := modelclient.NewMockClients(0, 0)
	return New(clients, budget.NewManager(budget.DefaultConfig()), nil)
}

func TestRouteUsesTargetTierWhenHealthy(t *testing.T) {
	r := newTestRouter()
	resp, err := r.Route(context.Background(), tiers.Comprehensive, modelclient.InferenceRequest{Prompt: "hello"}, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, tiers.Large, resp.TierUsed)
}

func TestRouteClampsMaxTokensToTierCeiling(t *testing.T) {
	r := newTestRouter()
	resp, err := r.Route(context.Background(), tiers.Reflex, modelclient.InferenceRequest{Prompt: "hi", MaxTokens: 100000}, "agent-1")
	require.NoError(t, err)
	assert.LessOrEqual(t, resp.CompletionTokens, 150)
}

func TestRouteDowngradesOnBudgetThrottle(t *testing.T) {
	cfg := budget.DefaultConfig()
	cfg.HourlyBudgetUSD = 1.0
	mgr := budget.NewManager(cfg)
	mgr.RecordUsage(tiers.Large, 1_000_000, "")

	r := New(modelclient.NewMockClients(0, 0), mgr, nil)
	resp, err := r.Route(context.Background(), tiers.Comprehensive, modelclient.InferenceRequest{Prompt: "hello"}, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, tiers.Medium, resp.TierUsed)

	history := r.GetRoutingHistory(1)
	require.Len(t, history, 1)
	assert.True(t, history[0].WasDowngraded)
	assert.Equal(t, "budget_throttle", history[0].DowngradeReason)
}

func TestRouteFallsBackWhenTierUnhealthy(t *testing.T) {
	r := newTestRouter()
	r.SetTierHealth(tiers.Large, false)

	resp, err := r.Route(context.Background(), tiers.Comprehensive, modelclient.InferenceRequest{Prompt: "hello"}, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, tiers.Medium, resp.TierUsed)
}

func TestGetRoutingHistoryCapsAtRequestedLimit(t *testing.T) {
	r := newTestRouter()
	for i := 0; i < 5; i++ {
		_, err := r.Route(context.Background(), tiers.Reflex, modelclient.InferenceRequest{Prompt: "hi"}, "agent-1")
		require.NoError(t, err)
	}
	assert.Len(t, r.GetRoutingHistory(2), 2)
	assert.Len(t, r.GetRoutingHistory(0), 5)
}

func TestCheckHealthRefreshesStatus(t *testing.T) {
	r := newTestRouter()
	results := r.CheckHealth(context.Background())
	assert.True(t, results[tiers.Small])

	status := r.GetStatus()
	require.NotNil(t, status.LastHealthCheck)
}
