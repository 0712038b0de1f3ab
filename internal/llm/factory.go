package llm

import (
	"github.com/cortexlabs/cogengine/internal/modelclient"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

// ClientConfig selects and configures the backend for one model tier.
type ClientConfig struct {
	// Backend is "anthropic", "openai", or "mock".
	Backend string
	Model   string
	APIKey  string
}

// BuildClients constructs a per-model-tier client map for modelrouter.New
// from a tier->backend mapping, falling back to modelclient.MockClient
// for any tier left unconfigured or explicitly set to "mock".
func BuildClients(cfg map[tiers.ModelTier]ClientConfig) map[tiers.ModelTier]modelclient.Client {
	clients := make(map[tiers.ModelTier]modelclient.Client, len(tiers.AllModelTiers()))
	for _, tier := range tiers.AllModelTiers() {
		tc, ok := cfg[tier]
		if !ok {
			clients[tier] = modelclient.NewMockClient(modelclient.MockConfig{Tier: tier})
			continue
		}

		switch tc.Backend {
		case "anthropic":
			clients[tier] = NewAnthropicClient(AnthropicConfig{APIKey: tc.APIKey, Model: tc.Model, Tier: tier})
		case "openai":
			clients[tier] = NewOpenAIClient(OpenAIConfig{APIKey: tc.APIKey, Model: tc.Model, Tier: tier})
		default:
			clients[tier] = modelclient.NewMockClient(modelclient.MockConfig{Tier: tier})
		}
	}
	return clients
}
