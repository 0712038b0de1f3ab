// Package llm adapts real frontier model SDKs to the modelclient.Client
// interface the cognitive engine routes inference through.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/cortexlabs/cogengine/internal/modelclient"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

// AnthropicConfig configures a Claude-backed Client for one model tier.
type AnthropicConfig struct {
	APIKey string
	Model  string
	Tier   tiers.ModelTier
}

// AnthropicClient implements modelclient.Client over the Anthropic
// Messages API, used for the Medium and Large reasoning tiers.
type AnthropicClient struct {
	client anthropic.Client
	model  string
	tier   tiers.ModelTier
}

// NewAnthropicClient creates a Client bound to cfg.Model. Panics-free
// even with an empty API key; HealthCheck reports unhealthy instead.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
		tier:   cfg.Tier,
	}
}

// Generate sends req as a single-turn message and converts the response
// into the router's stable InferenceResponse shape.
func (c *AnthropicClient) Generate(ctx context.Context, req modelclient.InferenceRequest) (modelclient.InferenceResponse, error) {
	start := time.Now()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.TopP > 0 {
		params.TopP = anthropic.Float(req.TopP)
	}
	if len(req.Stop) > 0 {
		params.StopSequences = req.Stop
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return modelclient.InferenceResponse{}, fmt.Errorf("anthropic generate: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return modelclient.InferenceResponse{
		Text:             text,
		ModelUsed:        string(msg.Model),
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
		TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		LatencyMs:        time.Since(start).Milliseconds(),
		TierUsed:         c.tier,
	}, nil
}

// HealthCheck issues a minimal, cheap request to confirm the API key and
// network path are good.
func (c *AnthropicClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	return err == nil
}

// Close is a no-op; the underlying SDK client owns no resources that
// need explicit release.
func (c *AnthropicClient) Close() error { return nil }
