package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexlabs/cogengine/internal/budget"
	"github.com/cortexlabs/cogengine/internal/modelclient"
	"github.com/cortexlabs/cogengine/internal/modelrouter"
	"github.com/cortexlabs/cogengine/internal/profile"
	"github.com/cortexlabs/cogengine/internal/promptbuilder"
	"github.com/cortexlabs/cogengine/internal/thought"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

func newTestProcessor() *Processor {
	agent := profile.AgentProfile{AgentID: uuid.New(), Name: "Ada", Role: "engineer"}
	router := modelrouter.New(modelclient.NewMockClients(0, 0), budget.NewManager(budget.DefaultConfig()), nil)
	return New(agent, router)
}

func TestProcessRejectsEmptyStimulus(t *testing.T) {
	p := newTestProcessor()
	_, err := p.Process(context.Background(), "", 0.5, 0.5, 0.5, "", promptbuilder.Context{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProcessRejectsOutOfRangeParameters(t *testing.T) {
	p := newTestProcessor()
	_, err := p.Process(context.Background(), "hello", 1.5, 0.5, 0.5, "", promptbuilder.Context{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProcessHighUrgencyProducesReflexAndParallelReactive(t *testing.T) {
	p := newTestProcessor()
	result, err := p.Process(context.Background(), "the server is on fire", 0.9, 0.2, 0.8, "", promptbuilder.Context{})
	require.NoError(t, err)

	reflexCount, reactiveCount := 0, 0
	for _, th := range result.Thoughts {
		switch th.Tier {
		case tiers.Reflex:
			reflexCount++
		case tiers.Reactive:
			reactiveCount++
		}
	}
	assert.Equal(t, 1, reflexCount)
	assert.Equal(t, 2, reactiveCount)
	require.NotNil(t, result.PrimaryThought)
}

func TestProcessLowRelevanceTakesTheFastPath(t *testing.T) {
	p := newTestProcessor()
	result, err := p.Process(context.Background(), "unrelated chatter", 0.5, 0.5, 0.1, "", promptbuilder.Context{})
	require.NoError(t, err)
	require.Len(t, result.Thoughts, 1)
	assert.Equal(t, tiers.Reflex, result.Thoughts[0].Tier)
}

func TestPlanStrategyLowUrgencyHighComplexityAddsAnalyticalStep(t *testing.T) {
	p := newTestProcessor()
	strategy := p.planStrategy(0.1, 0.8, 0.7)
	require.Len(t, strategy.Steps, 2)
	assert.Equal(t, tiers.Deliberate, strategy.Steps[0].Tier)
	assert.Equal(t, tiers.Analytical, strategy.Steps[1].Tier)
}

func TestPlanStrategyDefaultBranchScalesWithComplexity(t *testing.T) {
	p := newTestProcessor()
	low := p.planStrategy(0.5, 0.2, 0.5)
	high := p.planStrategy(0.5, 0.9, 0.5)
	require.Len(t, low.Steps, 1)
	require.Len(t, high.Steps, 1)
	assert.Equal(t, tiers.Reactive, low.Steps[0].Tier)
	assert.Equal(t, tiers.Deliberate, high.Steps[0].Tier)
}

func TestSelectPrimaryHigherTierOutscoresHigherConfidenceAndCompleteness(t *testing.T) {
	low := thought.NewThought(tiers.Reflex, "a", thought.TypeInsight, "t", 0.9, 0.9)
	high := thought.NewThought(tiers.Comprehensive, "b", thought.TypeInsight, "t", 0.5, 0.5)

	primary := selectPrimary([]thought.Thought{low, high})
	require.NotNil(t, primary)
	assert.Equal(t, high.ID, primary.ID)
}

func TestEstimateConfidencePenalizesHedgingWords(t *testing.T) {
	plain := estimateConfidence(tiers.Deliberate, "this will work")
	hedged := estimateConfidence(tiers.Deliberate, "maybe this might possibly work, perhaps")
	assert.Less(t, hedged, plain)
	assert.GreaterOrEqual(t, hedged, 0.3)
}

func TestEstimateCompletenessBuckets(t *testing.T) {
	assert.Equal(t, 0.9, estimateCompleteness(1000, 900))
	assert.Equal(t, 0.7, estimateCompleteness(1000, 600))
	assert.Equal(t, 0.5, estimateCompleteness(1000, 300))
	assert.Equal(t, 0.4, estimateCompleteness(1000, 100))
	assert.Equal(t, 0.5, estimateCompleteness(0, 100))
}

func TestInferThoughtTypePrioritizesConcernOverQuestion(t *testing.T) {
	assert.Equal(t, thought.TypeConcern, inferThoughtType("general", "I have a concern, is this risky?"))
	assert.Equal(t, thought.TypeQuestion, inferThoughtType("general", "what should we do here?"))
	assert.Equal(t, thought.TypeReaction, inferThoughtType("immediate_response", "got it"))
	assert.Equal(t, thought.TypePlan, inferThoughtType("general", "we should plan the next steps"))
	assert.Equal(t, thought.TypeObservation, inferThoughtType("general", "I notice the latency spiked"))
	assert.Equal(t, thought.TypeInsight, inferThoughtType("general", "this is a neutral statement"))
}
