package thought

import (
	"time"

	"github.com/google/uuid"
)

// StreamStatus is the lifecycle state of a ThoughtStream.
type StreamStatus string

const (
	StreamActive         StreamStatus = "active"
	StreamPaused         StreamStatus = "paused"
	StreamNeedsSynthesis StreamStatus = "needs_synthesis"
	StreamConcluded      StreamStatus = "concluded"
	StreamAbandoned      StreamStatus = "abandoned"
)

// Stream groups related thoughts by topic, accumulating toward a
// synthesis.
type Stream struct {
	ID                 string
	Topic              string
	Thoughts           []Thought
	Status             StreamStatus
	CreatedAt          time.Time
	SynthesizedOutput  *Thought
	ReadyToExternalize bool
}

// NewStream creates an empty, active stream for a topic.
func NewStream(id, topic string) *Stream {
	return &Stream{
		ID:        id,
		Topic:     topic,
		Status:    StreamActive,
		CreatedAt: time.Now().UTC(),
	}
}

// AddThought appends a thought, linking it to up to the 3 most recent
// prior thoughts already in the stream.
func (s *Stream) AddThought(t Thought) {
	s.Thoughts = append(s.Thoughts, t)
	n := len(s.Thoughts) - 1
	if n == 0 {
		return
	}
	start := n - 3
	if start < 0 {
		start = 0
	}
	related := make([]uuid.UUID, 0, n-start)
	for _, prior := range s.Thoughts[start:n] {
		related = append(related, prior.ID)
	}
	s.Thoughts[n].RelatedThoughtIDs = related
}

// GetRecent returns the n most recently added thoughts.
func (s *Stream) GetRecent(n int) []Thought {
	if n >= len(s.Thoughts) {
		return s.Thoughts
	}
	return s.Thoughts[len(s.Thoughts)-n:]
}

// ThoughtCount returns the number of thoughts in the stream.
func (s *Stream) ThoughtCount() int {
	return len(s.Thoughts)
}

// AvgConfidence returns the mean confidence across thoughts in the stream.
func (s *Stream) AvgConfidence() float64 {
	if len(s.Thoughts) == 0 {
		return 0
	}
	var sum float64
	for _, t := range s.Thoughts {
		sum += t.Confidence
	}
	return sum / float64(len(s.Thoughts))
}

// AvgCompleteness returns the mean completeness across thoughts in the
// stream.
func (s *Stream) AvgCompleteness() float64 {
	if len(s.Thoughts) == 0 {
		return 0
	}
	var sum float64
	for _, t := range s.Thoughts {
		sum += t.Completeness
	}
	return sum / float64(len(s.Thoughts))
}

// TimeSpanSeconds returns the elapsed time between the first and last
// thought in the stream.
func (s *Stream) TimeSpanSeconds() float64 {
	if len(s.Thoughts) < 2 {
		return 0
	}
	first := s.Thoughts[0].CreatedAt
	last := s.Thoughts[len(s.Thoughts)-1].CreatedAt
	return last.Sub(first).Seconds()
}
