// Package processor implements the tiered cognitive processor: strategy
// planning, parallel/sequential tier execution, and thought construction.
package processor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cortexlabs/cogengine/internal/modelclient"
	"github.com/cortexlabs/cogengine/internal/modelrouter"
	"github.com/cortexlabs/cogengine/internal/profile"
	"github.com/cortexlabs/cogengine/internal/promptbuilder"
	"github.com/cortexlabs/cogengine/internal/thought"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

// hedgingWords reduce confidence when present in a thought's content.
var hedgingWords = []string{"maybe", "perhaps", "might", "possibly", "uncertain"}

var baseConfidenceByTier = map[tiers.CognitiveTier]float64{
	tiers.Reflex:        0.5,
	tiers.Reactive:      0.6,
	tiers.Deliberate:    0.75,
	tiers.Analytical:    0.85,
	tiers.Comprehensive: 0.9,
}

// Processor plans and executes cognitive-tier strategies for one agent.
type Processor struct {
	agent   profile.AgentProfile
	router  *modelrouter.Router
	builder *promptbuilder.Builder
	catalog *tiers.Catalog
}

// New creates a Processor for an agent, routing inference through router.
func New(agent profile.AgentProfile, router *modelrouter.Router) *Processor {
	return &Processor{
		agent:   agent,
		router:  router,
		builder: promptbuilder.New(),
		catalog: tiers.NewCatalog(),
	}
}

// Process plans a strategy for the given stimulus characteristics, runs
// it, and returns the accumulated result. It never returns an error for
// individual step failures; those are simply omitted from the result.
func (p *Processor) Process(ctx context.Context, stimulus string, urgency, complexity, relevance float64, purpose string, extra promptbuilder.Context) (thought.CognitiveResult, error) {
	if err := validate(stimulus, urgency, complexity, relevance); err != nil {
		return thought.CognitiveResult{}, err
	}
	if purpose == "" {
		purpose = thought.DefaultPurpose
	}

	start := time.Now()
	stimulusID := uuid.New()

	strategy := p.planStrategy(urgency, complexity, relevance)

	var thoughts []thought.Thought
	for _, step := range strategy.Steps {
		if step.Parallel && step.Count > 1 {
			thoughts = append(thoughts, p.runParallel(ctx, step, stimulus, extra, thoughts)...)
			continue
		}
		t, err := p.runTier(ctx, step.Tier, stimulus, step.Purpose, extra, thoughts)
		if err != nil {
			continue
		}
		thoughts = append(thoughts, t)
	}

	primary := selectPrimary(thoughts)

	tiersUsed := uniqueTiers(thoughts)

	return thought.CognitiveResult{
		Thoughts:         thoughts,
		PrimaryThought:   primary,
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		TiersUsed:        tiersUsed,
		AgentID:          p.agent.AgentID,
		StimulusID:       stimulusID,
	}, nil
}

// ProcessWithTierOverride runs a single tier directly, bypassing strategy
// planning.
func (p *Processor) ProcessWithTierOverride(ctx context.Context, stimulus string, tier tiers.CognitiveTier, purpose string, extra promptbuilder.Context) (thought.Thought, error) {
	if purpose == "" {
		purpose = "direct_tier"
	}
	return p.runTier(ctx, tier, stimulus, purpose, extra, nil)
}

func (p *Processor) runParallel(ctx context.Context, step thought.ProcessingStep, stimulus string, extra promptbuilder.Context, prior []thought.Thought) []thought.Thought {
	type result struct {
		t   thought.Thought
		err error
	}
	results := make([]result, step.Count)
	var wg sync.WaitGroup
	for i := 0; i < step.Count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			t, err := p.runTier(ctx, step.Tier, stimulus, fmt.Sprintf("%s_%d", step.Purpose, i), extra, prior)
			results[i] = result{t: t, err: err}
		}(i)
	}
	wg.Wait()

	out := make([]thought.Thought, 0, step.Count)
	for _, r := range results {
		if r.err == nil {
			out = append(out, r.t)
		}
	}
	return out
}

func (p *Processor) runTier(ctx context.Context, tier tiers.CognitiveTier, stimulus, purpose string, extra promptbuilder.Context, prior []thought.Thought) (thought.Thought, error) {
	effective := extra
	if len(prior) > 0 {
		recent := prior
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		contents := make([]string, len(recent))
		for i, t := range recent {
			contents[i] = t.Content
		}
		effective.PriorThoughts = promptbuilder.FormatPriorThoughts(contents)
	}

	prompt := p.builder.Build(tier, p.agent, stimulus, purpose, effective)

	cfg, _ := p.catalog.GetTier(tier)
	req := modelclient.InferenceRequest{
		Prompt:      prompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: 0.7,
	}

	resp, err := p.router.Route(ctx, tier, req, p.agent.AgentID.String())
	if err != nil {
		return thought.Thought{}, err
	}

	content := strings.TrimSpace(resp.Text)
	confidence := estimateConfidence(tier, content)
	completeness := estimateCompleteness(cfg.MaxTokens, resp.CompletionTokens)

	related := make([]uuid.UUID, 0, 3)
	start := len(prior) - 3
	if start < 0 {
		start = 0
	}
	for _, t := range prior[start:] {
		related = append(related, t.ID)
	}

	t := thought.NewThought(tier, content, inferThoughtType(purpose, content), purpose, confidence, completeness)
	t.RelatedThoughtIDs = related
	return t, nil
}

// planStrategy implements the strategy selection matrix.
func (p *Processor) planStrategy(urgency, complexity, relevance float64) thought.ProcessingStrategy {
	var steps []thought.ProcessingStep

	switch {
	case urgency > 0.8 && relevance > 0.5:
		steps = append(steps, thought.ProcessingStep{Tier: tiers.Reflex, Purpose: "immediate_response"})
		steps = append(steps, thought.ProcessingStep{Tier: tiers.Reactive, Purpose: "tactical_assessment", Parallel: true, Count: 2})
		if complexity > 0.5 {
			steps = append(steps, thought.ProcessingStep{Tier: tiers.Deliberate, Purpose: "deeper_analysis"})
		}

	case urgency < 0.3 && relevance > 0.5:
		steps = append(steps, thought.ProcessingStep{Tier: tiers.Deliberate, Purpose: "considered_response"})
		if complexity > 0.7 {
			steps = append(steps, thought.ProcessingStep{Tier: tiers.Analytical, Purpose: "thorough_analysis"})
		}

	case relevance < 0.3:
		steps = append(steps, thought.ProcessingStep{Tier: tiers.Reflex, Purpose: "note_for_context"})

	default:
		tier := tiers.Reactive
		if complexity >= 0.5 {
			tier = tiers.Deliberate
		}
		steps = append(steps, thought.ProcessingStep{Tier: tier, Purpose: "proportional_response"})
	}

	return thought.ProcessingStrategy{Steps: steps}
}

func selectPrimary(thoughts []thought.Thought) *thought.Thought {
	if len(thoughts) == 0 {
		return nil
	}
	best := thoughts[0]
	bestScore := score(best)
	for _, t := range thoughts[1:] {
		if s := score(t); s > bestScore {
			best = t
			bestScore = s
		}
	}
	return &best
}

func score(t thought.Thought) float64 {
	return float64(t.Tier)*0.4 + t.Confidence*0.3 + t.Completeness*0.3
}

func uniqueTiers(thoughts []thought.Thought) []tiers.CognitiveTier {
	seen := make(map[tiers.CognitiveTier]bool)
	var out []tiers.CognitiveTier
	for _, t := range thoughts {
		if !seen[t.Tier] {
			seen[t.Tier] = true
			out = append(out, t.Tier)
		}
	}
	return out
}

func estimateConfidence(tier tiers.CognitiveTier, content string) float64 {
	base := baseConfidenceByTier[tier]
	lowered := strings.ToLower(content)
	hedges := 0
	for _, w := range hedgingWords {
		if strings.Contains(lowered, w) {
			hedges++
		}
	}
	penalty := 0.05 * float64(hedges)
	if penalty > 0.15 {
		penalty = 0.15
	}
	conf := base - penalty
	if conf < 0.3 {
		conf = 0.3
	}
	return conf
}

func estimateCompleteness(maxTokens, completionTokens int) float64 {
	if maxTokens == 0 {
		return 0.5
	}
	utilization := float64(completionTokens) / float64(maxTokens)
	switch {
	case utilization > 0.8:
		return 0.9
	case utilization > 0.5:
		return 0.7
	case utilization > 0.2:
		return 0.5
	default:
		return 0.4
	}
}

func inferThoughtType(purpose, content string) thought.Type {
	lowered := strings.ToLower(content)
	switch {
	case containsAny(lowered, "concern", "risk", "worry", "careful", "danger"):
		return thought.TypeConcern
	case strings.Contains(content, "?"):
		return thought.TypeQuestion
	case purpose == "immediate_response":
		return thought.TypeReaction
	case containsAny(lowered, "should", "could", "plan", "next", "recommend"):
		return thought.TypePlan
	case containsAny(lowered, "notice", "observe", "see", "note"):
		return thought.TypeObservation
	default:
		return thought.TypeInsight
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
