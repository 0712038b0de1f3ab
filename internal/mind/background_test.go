package mind

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexlabs/cogengine/internal/thought"
)

func TestBackgroundProcessorStartStopLifecycle(t *testing.T) {
	m := New("agent-1", nil)
	acc := NewAccumulator(m, &fakeProcessor{})
	cfg := BackgroundConfig{
		CleanupInterval:        50 * time.Millisecond,
		SynthesisCheckInterval: 10 * time.Millisecond,
		MaxThoughtAge:          time.Minute,
	}
	bp := NewBackgroundProcessor(m, acc, cfg)

	assert.False(t, bp.IsRunning())
	bp.Start(context.Background())
	assert.True(t, bp.IsRunning())

	// Starting again while running is a no-op, not a second loop.
	bp.Start(context.Background())
	assert.True(t, bp.IsRunning())

	bp.Stop()
	assert.False(t, bp.IsRunning())
}

func TestBackgroundProcessorTickSynthesizesAndCleansUp(t *testing.T) {
	m := New("agent-1", nil)
	acc := NewAccumulator(m, &fakeProcessor{result: primaryResult("synthesized point", 0.8)})
	for i := 0; i < 3; i++ {
		m.AddThought(newTestThought("recurring topic needs attention", thought.TypeObservation, 0.6, 0.5))
	}
	require.Equal(t, 1, acc.PendingSynthesisCount())

	bp := NewBackgroundProcessor(m, acc, BackgroundConfig{
		CleanupInterval:        time.Minute,
		SynthesisCheckInterval: time.Second,
		MaxThoughtAge:          time.Minute,
	})

	loopCount := 0
	err := bp.tick(context.Background(), &loopCount, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, acc.PendingSynthesisCount())
	// Cleanup ran on this tick and dropped the now-concluded stream.
	assert.Equal(t, 0, m.GetState().Streams)
}

func TestQueueDeepAnalysisAddsThoughtToMind(t *testing.T) {
	m := New("agent-1", nil)
	acc := NewAccumulator(m, &fakeProcessor{result: primaryResult("deep analysis result", 0.7)})
	bp := NewBackgroundProcessor(m, acc, DefaultBackgroundConfig())

	done := make(chan thought.Thought, 1)
	bp.QueueDeepAnalysis(context.Background(), "stimulus", "deep_dive", func(th thought.Thought) {
		done <- th
	})

	select {
	case th := <-done:
		assert.Equal(t, "deep analysis result", th.Content)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for background analysis callback")
	}
	assert.Equal(t, 1, m.GetState().ActiveThoughts)
}

func TestQueueSynthesisReturnsFalseWhenTopicUnknown(t *testing.T) {
	m := New("agent-1", nil)
	acc := NewAccumulator(m, &fakeProcessor{})
	bp := NewBackgroundProcessor(m, acc, DefaultBackgroundConfig())

	assert.False(t, bp.QueueSynthesis(context.Background(), "nothing here"))
}

func TestQueueSynthesisSynthesizesExistingStream(t *testing.T) {
	m := New("agent-1", nil)
	m.AddThought(newTestThought("budget review is overdue", thought.TypeConcern, 0.6, 0.5))
	m.AddThought(newTestThought("budget review needs scheduling", thought.TypeInsight, 0.7, 0.6))

	acc := NewAccumulator(m, &fakeProcessor{result: primaryResult("schedule the budget review", 0.8)})
	bp := NewBackgroundProcessor(m, acc, DefaultBackgroundConfig())

	require.True(t, bp.QueueSynthesis(context.Background(), "budget review"))

	require.Eventually(t, func() bool {
		return m.GetBestContribution() != nil
	}, time.Second, 5*time.Millisecond)
}

func TestGetStatusReportsConfiguredIntervals(t *testing.T) {
	m := New("agent-1", nil)
	acc := NewAccumulator(m, &fakeProcessor{})
	cfg := BackgroundConfig{
		CleanupInterval:        2 * time.Minute,
		SynthesisCheckInterval: 5 * time.Second,
		MaxThoughtAge:          15 * time.Minute,
	}
	bp := NewBackgroundProcessor(m, acc, cfg)

	status := bp.GetStatus()
	assert.Equal(t, 120.0, status.CleanupIntervalSeconds)
	assert.Equal(t, 5.0, status.SynthesisIntervalSecs)
	assert.Equal(t, 15.0, status.MaxThoughtAgeMinutes)
	assert.False(t, status.Running)
}
