package mind

import (
	"context"
	"fmt"
	"strings"

	"github.com/cortexlabs/cogengine/internal/logging"
	"github.com/cortexlabs/cogengine/internal/promptbuilder"
	"github.com/cortexlabs/cogengine/internal/thought"
)

// processor is the subset of Processor the accumulator needs. Defined
// here so the accumulator can be tested against a fake without
// depending on the concrete processor package's router wiring.
type processor interface {
	Process(ctx context.Context, stimulus string, urgency, complexity, relevance float64, purpose string, extra promptbuilder.Context) (thought.CognitiveResult, error)
}

// Accumulator enables listening behavior: thoughts build up in a Mind
// before the agent speaks, and related thoughts synthesize into a
// single coherent contribution.
type Accumulator struct {
	mind *Mind
	proc processor
	log  *logging.Logger
}

// NewAccumulator creates an Accumulator over mind, generating thoughts
// through proc.
func NewAccumulator(mind *Mind, proc processor) *Accumulator {
	return &Accumulator{
		mind: mind,
		proc: proc,
		log:  logging.Global().WithComponent("accumulator"),
	}
}

// ProcessObservation runs a low-effort pass over a stimulus and, if it
// produced a primary thought, adds it to the mind. Used for passive
// listening.
func (a *Accumulator) ProcessObservation(ctx context.Context, stimulus string, relevance float64) (*thought.Thought, error) {
	result, err := a.proc.Process(ctx, stimulus, 0.2, 0.3, relevance, "observation", promptbuilder.Context{})
	if err != nil {
		return nil, err
	}
	if result.PrimaryThought == nil {
		return nil, nil
	}
	a.mind.AddThought(*result.PrimaryThought)
	a.log.Debug("Processed observation, added thought (confidence: %.2f)", result.PrimaryThought.Confidence)
	return result.PrimaryThought, nil
}

// SynthesizeStream folds every thought in a stream into one coherent
// contribution. Requires at least 2 thoughts; returns nil, nil
// otherwise.
func (a *Accumulator) SynthesizeStream(ctx context.Context, stream *thought.Stream) (*thought.Thought, error) {
	if stream.ThoughtCount() < 2 {
		a.log.Debug("Stream %q has too few thoughts for synthesis", stream.Topic)
		return nil, nil
	}

	var lines strings.Builder
	for _, t := range stream.Thoughts {
		fmt.Fprintf(&lines, "- %s (confidence: %.1f)\n", t.Content, t.Confidence)
	}
	thoughtsText := strings.TrimRight(lines.String(), "\n")

	stimulus := fmt.Sprintf(
		"I've been thinking about: %s\n\nMy observations and thoughts so far:\n%s\n\nSynthesize these into ONE clear, coherent point that captures the key insight or conclusion.",
		stream.Topic, thoughtsText,
	)

	extra := promptbuilder.Context{
		PriorThoughts: thoughtsText,
		StreamTopic:   stream.Topic,
		ThoughtCount:  stream.ThoughtCount(),
	}

	result, err := a.proc.Process(ctx, stimulus, 0.3, 0.6, 0.8, "synthesis", extra)
	if err != nil {
		return nil, err
	}
	if result.PrimaryThought == nil {
		a.log.Warn("Synthesis failed for stream %q", stream.Topic)
		return nil, nil
	}

	synthesis := *result.PrimaryThought
	synthesis.Type = thought.TypeInsight

	stream.SynthesizedOutput = &synthesis
	stream.ReadyToExternalize = true
	stream.Status = thought.StreamConcluded

	for i := range stream.Thoughts {
		stream.Thoughts[i].StillRelevant = false
		id := synthesis.ID
		stream.Thoughts[i].SupersededBy = &id
	}

	if synthesis.Confidence > 0.6 {
		a.mind.PrepareToShare(synthesis)
		a.log.Debug("Synthesis ready to share: %q (confidence: %.2f)", stream.Topic, synthesis.Confidence)
	} else {
		a.mind.HoldInsight(synthesis)
		a.log.Debug("Synthesis held as insight: %q (confidence: %.2f)", stream.Topic, synthesis.Confidence)
	}

	a.mind.mu.Lock()
	a.mind.activeThoughts[synthesis.ID] = &synthesis
	a.mind.mu.Unlock()

	return &synthesis, nil
}

// CheckStreamsForSynthesis synthesizes every stream currently marked as
// needing it.
func (a *Accumulator) CheckStreamsForSynthesis(ctx context.Context) ([]thought.Thought, error) {
	var synthesized []thought.Thought
	for _, stream := range a.mind.GetStreamsNeedingSynthesis() {
		a.log.Debug("Synthesizing stream: %q", stream.Topic)
		result, err := a.SynthesizeStream(ctx, stream)
		if err != nil {
			return synthesized, err
		}
		if result != nil {
			synthesized = append(synthesized, *result)
		}
	}
	if len(synthesized) > 0 {
		a.log.Info("Synthesized %d streams", len(synthesized))
	}
	return synthesized, nil
}

// PendingSynthesisCount returns the number of streams needing synthesis.
func (a *Accumulator) PendingSynthesisCount() int {
	return len(a.mind.GetStreamsNeedingSynthesis())
}

// ForceSynthesisOnTopic synthesizes the stream matching topic even if it
// hasn't yet crossed the synthesis threshold. Returns nil, nil if no
// matching stream exists or it has fewer than 2 thoughts.
func (a *Accumulator) ForceSynthesisOnTopic(ctx context.Context, topic string) (*thought.Thought, error) {
	stream := a.mind.GetStreamForTopic(topic)
	if stream == nil {
		a.log.Debug("No stream found for topic: %q", topic)
		return nil, nil
	}
	if stream.ThoughtCount() < 2 {
		a.log.Debug("Stream %q has too few thoughts for synthesis", topic)
		return nil, nil
	}
	return a.SynthesizeStream(ctx, stream)
}

// AccumulationSummary reports current stream and sharing statistics.
type AccumulationSummary struct {
	TotalStreams             int
	ActiveStreams            int
	NeedsSynthesis           int
	Concluded                int
	TotalAccumulatedThoughts int
	ReadyToShare             int
	HeldInsights             int
}

// AccumulationSummary returns a snapshot of current accumulation state.
func (a *Accumulator) AccumulationSummary() AccumulationSummary {
	a.mind.mu.Lock()
	defer a.mind.mu.Unlock()

	var summary AccumulationSummary
	summary.TotalStreams = len(a.mind.streams)
	for _, s := range a.mind.streams {
		summary.TotalAccumulatedThoughts += s.ThoughtCount()
		switch s.Status {
		case thought.StreamActive:
			summary.ActiveStreams++
		case thought.StreamNeedsSynthesis:
			summary.NeedsSynthesis++
		case thought.StreamConcluded:
			summary.Concluded++
		}
	}
	summary.ReadyToShare = len(a.mind.readyToShare)
	summary.HeldInsights = len(a.mind.heldInsights)
	return summary
}
