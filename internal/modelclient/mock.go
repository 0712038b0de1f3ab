package modelclient

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cortexlabs/cogengine/internal/tiers"
)

// tokensPerWord approximates token count from word count for the mock
// client, matching the reference implementation's estimate.
const tokensPerWord = 1.3

// MockConfig controls a MockClient's simulated behavior.
type MockConfig struct {
	Tier            tiers.ModelTier
	BaseLatencyMs   int64
	FailProbability float64
}

// latencyMultiplier scales BaseLatencyMs per model tier, mirroring the
// documented SMALL×1 / MEDIUM×2 / LARGE×4 simulation.
func latencyMultiplier(t tiers.ModelTier) int64 {
	switch t {
	case tiers.Small:
		return 1
	case tiers.Medium:
		return 2
	case tiers.Large:
		return 4
	default:
		return 1
	}
}

// MockClient simulates an inference backend for one model tier: it sleeps
// a tier-scaled latency, returns a templated response, optionally fails,
// and records call history.
type MockClient struct {
	cfg MockConfig

	mu      sync.Mutex
	history []InferenceRequest
	closed  bool
	rng     *rand.Rand
}

// NewMockClient creates a mock client for a model tier.
func NewMockClient(cfg MockConfig) *MockClient {
	return &MockClient{cfg: cfg, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Generate simulates a tier-scaled inference call.
func (c *MockClient) Generate(ctx context.Context, req InferenceRequest) (InferenceResponse, error) {
	c.mu.Lock()
	c.history = append(c.history, req)
	failProb := c.cfg.FailProbability
	roll := c.rng.Float64()
	c.mu.Unlock()

	latency := time.Duration(c.cfg.BaseLatencyMs*latencyMultiplier(c.cfg.Tier)) * time.Millisecond

	select {
	case <-ctx.Done():
		return InferenceResponse{}, ctx.Err()
	case <-time.After(latency):
	}

	if failProb > 0 && roll < failProb {
		return InferenceResponse{}, fmt.Errorf("mock client (%s): simulated failure", c.cfg.Tier)
	}

	text := templateResponse(c.cfg.Tier, req.MaxTokens)
	completionTokens := estimateTokens(text)
	if req.MaxTokens > 0 && completionTokens > req.MaxTokens {
		completionTokens = req.MaxTokens
	}
	promptTokens := estimateTokens(req.Prompt)

	return InferenceResponse{
		Text:             text,
		ModelUsed:        fmt.Sprintf("mock-%s", strings.ToLower(c.cfg.Tier.String())),
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		LatencyMs:        latency.Milliseconds(),
		TierUsed:         c.cfg.Tier,
	}, nil
}

// HealthCheck always reports healthy for the mock.
func (c *MockClient) HealthCheck(ctx context.Context) bool {
	return true
}

// Close marks the mock client closed; subsequent Generate calls are still
// permitted (there is no real connection to tear down).
func (c *MockClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// History returns the requests this mock has received, for test
// assertions.
func (c *MockClient) History() []InferenceRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]InferenceRequest, len(c.history))
	copy(out, c.history)
	return out
}

func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	return int(float64(words) * tokensPerWord)
}

func templateResponse(tier tiers.ModelTier, maxTokens int) string {
	switch {
	case maxTokens <= 200:
		return "Short mock response to the stimulus."
	case maxTokens <= 1500:
		return "Medium-length mock response considering the stimulus in a bit more depth, " +
			"weighing a couple of plausible next steps before settling on one."
	default:
		return "Long mock response providing a thorough mock analysis of the stimulus, " +
			"covering multiple angles, enumerating risks and opportunities, and closing " +
			"with a recommended course of action along with a short rationale for it."
	}
}

// NewMockClients builds one MockClient per model tier, suitable for
// wiring a ModelRouter end to end in tests or local exercise.
func NewMockClients(baseLatencyMs int64, failProbability float64) map[tiers.ModelTier]Client {
	clients := make(map[tiers.ModelTier]Client, 3)
	for _, t := range tiers.AllModelTiers() {
		clients[t] = NewMockClient(MockConfig{
			Tier:            t,
			BaseLatencyMs:   baseLatencyMs,
			FailProbability: failProbability,
		})
	}
	return clients
}
