package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/cortexlabs/cogengine/internal/modelclient"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

// OpenAIConfig configures a GPT-backed Client for one model tier.
type OpenAIConfig struct {
	APIKey string
	Model  string
	Tier   tiers.ModelTier
}

// OpenAIClient implements modelclient.Client over the OpenAI Chat
// Completions API. Used in deployments that route the Reactive tier to
// a cheap GPT model instead of a local one.
type OpenAIClient struct {
	client openai.Client
	model  string
	tier   tiers.ModelTier
}

// NewOpenAIClient creates a Client bound to cfg.Model.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
		tier:   cfg.Tier,
	}
}

// Generate sends req as a single-turn chat completion.
func (c *OpenAIClient) Generate(ctx context.Context, req modelclient.InferenceRequest) (modelclient.InferenceResponse, error) {
	start := time.Now()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return modelclient.InferenceResponse{}, fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return modelclient.InferenceResponse{}, fmt.Errorf("openai generate: empty choices")
	}

	return modelclient.InferenceResponse{
		Text:             resp.Choices[0].Message.Content,
		ModelUsed:        resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
		LatencyMs:        time.Since(start).Milliseconds(),
		TierUsed:         c.tier,
	}, nil
}

// HealthCheck issues a minimal completion request.
func (c *OpenAIClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(c.model),
		MaxTokens: openai.Int(1),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
	})
	return err == nil
}

// Close is a no-op; the SDK's HTTP client is reused across calls and
// needs no explicit shutdown.
func (c *OpenAIClient) Close() error { return nil }
