// Package modelclient defines the inference backend abstraction consumed
// by the model router, plus a mock implementation for tests and local
// exercise.
package modelclient

import (
	"context"

	"github.com/cortexlabs/cogengine/internal/tiers"
)

// InferenceRequest is the stable request payload sent to a ModelClient.
type InferenceRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
}

// InferenceResponse is the stable response payload returned by a
// ModelClient.
type InferenceResponse struct {
	Text             string
	ModelUsed        string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	LatencyMs        int64
	TierUsed         tiers.ModelTier
}

// Client is the interface the cognitive engine depends on for inference.
// Implementations must be safe for concurrent Generate calls.
type Client interface {
	Generate(ctx context.Context, req InferenceRequest) (InferenceResponse, error)
	HealthCheck(ctx context.Context) bool
	Close() error
}
