package mind

import (
	"context"
	"sync"
	"time"

	"github.com/cortexlabs/cogengine/internal/logging"
	"github.com/cortexlabs/cogengine/internal/promptbuilder"
	"github.com/cortexlabs/cogengine/internal/thought"
)

// BackgroundConfig configures the background processing loop.
type BackgroundConfig struct {
	CleanupInterval        time.Duration
	SynthesisCheckInterval time.Duration
	MaxThoughtAge          time.Duration
}

// DefaultBackgroundConfig returns the reference cadence: synthesis
// checked every second, cleanup every minute, thoughts older than 30
// minutes dropped.
func DefaultBackgroundConfig() BackgroundConfig {
	return BackgroundConfig{
		CleanupInterval:        60 * time.Second,
		SynthesisCheckInterval: 1 * time.Second,
		MaxThoughtAge:          30 * time.Minute,
	}
}

// DeepAnalysisCallback is invoked with the result of a queued deep
// analysis task, if one was produced.
type DeepAnalysisCallback func(thought.Thought)

type backgroundTask struct {
	done chan struct{}
}

// BackgroundProcessor runs deeper cognitive work - synthesis checks,
// stale-thought cleanup, and queued deep analysis - while the agent is
// otherwise listening rather than responding.
type BackgroundProcessor struct {
	mind        *Mind
	accumulator *Accumulator
	config      BackgroundConfig
	log         *logging.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	tasks   []*backgroundTask
}

// NewBackgroundProcessor creates a BackgroundProcessor over mind, using
// accumulator for synthesis.
func NewBackgroundProcessor(mind *Mind, accumulator *Accumulator, config BackgroundConfig) *BackgroundProcessor {
	return &BackgroundProcessor{
		mind:        mind,
		accumulator: accumulator,
		config:      config,
		log:         logging.Global().WithComponent("background"),
	}
}

// Start begins the background processing loop. No-op if already
// running.
func (b *BackgroundProcessor) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		b.log.Warn("Background processor already running")
		return
	}

	b.running = true
	b.stopCh = make(chan struct{})
	b.doneCh = make(chan struct{})

	go b.runLoop(ctx, b.stopCh, b.doneCh)

	b.log.Info("Background processor started for agent %s", b.mind.agentID)
}

// Stop halts the loop and waits for it to exit.
func (b *BackgroundProcessor) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	stopCh, doneCh := b.stopCh, b.doneCh
	b.running = false
	b.mu.Unlock()

	close(stopCh)
	<-doneCh

	b.log.Info("Background processor stopped for agent %s", b.mind.agentID)
}

// IsRunning reports whether the loop is active.
func (b *BackgroundProcessor) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

func (b *BackgroundProcessor) runLoop(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	synthesisTicker := time.NewTicker(b.config.SynthesisCheckInterval)
	defer synthesisTicker.Stop()

	loopsPerCleanup := int(b.config.CleanupInterval / b.config.SynthesisCheckInterval)
	if loopsPerCleanup < 1 {
		loopsPerCleanup = 1
	}
	loopCount := 0

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-synthesisTicker.C:
			if err := b.tick(ctx, &loopCount, loopsPerCleanup); err != nil {
				b.log.Error("Background processor error: %v", err)
				time.Sleep(5 * time.Second)
			}
		}
	}
}

func (b *BackgroundProcessor) tick(ctx context.Context, loopCount *int, loopsPerCleanup int) error {
	synthesized, err := b.accumulator.CheckStreamsForSynthesis(ctx)
	if err != nil {
		return err
	}
	if len(synthesized) > 0 {
		b.log.Debug("Background synthesized %d streams", len(synthesized))
	}

	*loopCount++
	if *loopCount >= loopsPerCleanup {
		if cleaned := b.mind.CleanupOldThoughts(b.config.MaxThoughtAge); cleaned > 0 {
			b.log.Debug("Background cleaned up %d old thoughts", cleaned)
		}
		*loopCount = 0
	}

	b.pruneCompletedTasks()
	return nil
}

func (b *BackgroundProcessor) pruneCompletedTasks() {
	b.mu.Lock()
	defer b.mu.Unlock()
	live := b.tasks[:0]
	for _, t := range b.tasks {
		select {
		case <-t.done:
		default:
			live = append(live, t)
		}
	}
	b.tasks = live
}

// QueueDeepAnalysis runs a high-complexity, low-urgency pass over
// stimulus in a new goroutine, adding any resulting thought to the
// mind and invoking callback if given.
func (b *BackgroundProcessor) QueueDeepAnalysis(ctx context.Context, stimulus, purpose string, callback DeepAnalysisCallback) {
	task := &backgroundTask{done: make(chan struct{})}
	b.mu.Lock()
	b.tasks = append(b.tasks, task)
	b.mu.Unlock()

	go func() {
		defer close(task.done)

		result, err := b.accumulator.proc.Process(ctx, stimulus, 0.1, 0.9, 0.7, purpose, promptbuilder.Context{})
		if err != nil {
			b.log.Error("Background analysis failed: %v", err)
			return
		}
		if result.PrimaryThought == nil {
			return
		}

		b.mind.AddThought(*result.PrimaryThought)
		b.log.Debug("Background analysis complete: %s (confidence: %.2f)", purpose, result.PrimaryThought.Confidence)

		if callback != nil {
			callback(*result.PrimaryThought)
		}
	}()

	b.log.Debug("Queued background analysis: %s", purpose)
}

// QueueSynthesis synthesizes the stream for topic in a new goroutine, if
// one exists.
func (b *BackgroundProcessor) QueueSynthesis(ctx context.Context, topic string) bool {
	stream := b.mind.GetStreamForTopic(topic)
	if stream == nil {
		return false
	}

	task := &backgroundTask{done: make(chan struct{})}
	b.mu.Lock()
	b.tasks = append(b.tasks, task)
	b.mu.Unlock()

	go func() {
		defer close(task.done)
		if _, err := b.accumulator.SynthesizeStream(ctx, stream); err != nil {
			b.log.Error("Background synthesis failed: %v", err)
		}
	}()

	b.log.Debug("Queued background synthesis for topic: %s", topic)
	return true
}

// Status reports current background processor state.
type Status struct {
	Running                bool
	ActiveBackgroundTasks  int
	PendingSynthesis       int
	CleanupIntervalSeconds float64
	SynthesisIntervalSecs  float64
	MaxThoughtAgeMinutes   float64
}

// GetStatus returns a snapshot of the processor's state.
func (b *BackgroundProcessor) GetStatus() Status {
	b.mu.Lock()
	active := 0
	for _, t := range b.tasks {
		select {
		case <-t.done:
		default:
			active++
		}
	}
	running := b.running
	b.mu.Unlock()

	return Status{
		Running:                running,
		ActiveBackgroundTasks:  active,
		PendingSynthesis:       b.accumulator.PendingSynthesisCount(),
		CleanupIntervalSeconds: b.config.CleanupInterval.Seconds(),
		SynthesisIntervalSecs:  b.config.SynthesisCheckInterval.Seconds(),
		MaxThoughtAgeMinutes:   b.config.MaxThoughtAge.Minutes(),
	}
}
