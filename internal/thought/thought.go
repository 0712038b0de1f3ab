// Package thought defines the value types produced and accumulated by
// cognitive processing: Thought, ThoughtStream, and CognitiveResult.
package thought

import (
	"time"

	"github.com/google/uuid"

	"github.com/cortexlabs/cogengine/internal/tiers"
)

// Type classifies a Thought.
type Type string

const (
	TypeInsight     Type = "insight"
	TypeConcern     Type = "concern"
	TypeQuestion    Type = "question"
	TypeObservation Type = "observation"
	TypePlan        Type = "plan"
	TypeReaction    Type = "reaction"
)

// Thought is one unit of cognition produced by a tier run.
type Thought struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Tier      tiers.CognitiveTier
	Content   string
	Type      Type
	Trigger   string

	Confidence   float64
	Completeness float64

	Externalized     bool
	ExternalizedAt   *time.Time
	StillRelevant    bool
	SupersededBy     *uuid.UUID
	RelatedThoughtIDs []uuid.UUID
}

// NewThought constructs a Thought with lifecycle defaults (StillRelevant
// true, not externalized) and a fresh ID/timestamp.
func NewThought(tier tiers.CognitiveTier, content string, typ Type, trigger string, confidence, completeness float64) Thought {
	return Thought{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC(),
		Tier:          tier,
		Content:       content,
		Type:          typ,
		Trigger:       trigger,
		Confidence:    confidence,
		Completeness:  completeness,
		StillRelevant: true,
	}
}

// StimulusInput is the validated input to cognitive processing.
type StimulusInput struct {
	Stimulus  string
	AgentID   uuid.UUID
	Urgency   float64
	Complexity float64
	Relevance  float64
	Purpose    string
	Context    map[string]any
}

const (
	// MaxStimulusLength bounds StimulusInput.Stimulus, matching the
	// reference implementation's validation.
	MaxStimulusLength = 10000
	// DefaultPurpose is used when a caller does not specify one.
	DefaultPurpose = "general_response"
)

// CognitiveResult is the output of one Process call.
type CognitiveResult struct {
	Thoughts         []Thought
	PrimaryThought   *Thought
	ProcessingTimeMs float64
	TiersUsed        []tiers.CognitiveTier
	AgentID          uuid.UUID
	StimulusID       uuid.UUID
}

// ThoughtCount returns the number of thoughts produced.
func (r CognitiveResult) ThoughtCount() int {
	return len(r.Thoughts)
}

// AvgConfidence returns the mean confidence across all thoughts, or 0 if
// there are none.
func (r CognitiveResult) AvgConfidence() float64 {
	if len(r.Thoughts) == 0 {
		return 0
	}
	var sum float64
	for _, t := range r.Thoughts {
		sum += t.Confidence
	}
	return sum / float64(len(r.Thoughts))
}

// HighestTierUsed returns the highest cognitive tier invoked, or false if
// none were.
func (r CognitiveResult) HighestTierUsed() (tiers.CognitiveTier, bool) {
	if len(r.TiersUsed) == 0 {
		return 0, false
	}
	highest := r.TiersUsed[0]
	for _, t := range r.TiersUsed[1:] {
		if t > highest {
			highest = t
		}
	}
	return highest, true
}

// ProcessingStep is one planned step of a ProcessingStrategy.
type ProcessingStep struct {
	Tier     tiers.CognitiveTier
	Purpose  string
	Parallel bool
	Count    int
}

// ProcessingStrategy is a planned, ordered sequence of tier invocations.
type ProcessingStrategy struct {
	Steps []ProcessingStep
}

// StepCount returns the number of planned steps.
func (s ProcessingStrategy) StepCount() int {
	return len(s.Steps)
}

// HasParallelSteps reports whether any step runs in parallel.
func (s ProcessingStrategy) HasParallelSteps() bool {
	for _, step := range s.Steps {
		if step.Parallel {
			return true
		}
	}
	return false
}

// TotalTierInvocations returns the total number of tier runs the strategy
// will perform, counting each parallel step's Count (default 1).
func (s ProcessingStrategy) TotalTierInvocations() int {
	total := 0
	for _, step := range s.Steps {
		if step.Count > 0 {
			total += step.Count
		} else {
			total++
		}
	}
	return total
}
