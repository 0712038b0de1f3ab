// Package mind implements the Internal Mind: the cognitive workspace
// where an agent's thoughts accumulate into streams, independent of
// whether they are ever spoken.
package mind

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cortexlabs/cogengine/internal/logging"
	"github.com/cortexlabs/cogengine/internal/thought"
)

var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(
		"i the a an is are was were be been being have has had do does did will would " +
			"could should may might must that this these those it its of to in for on with at " +
			"by from as into through during before after and but or so if then else when there " +
			"here all each every both few more most other some such no not only own same " +
			"than too very just also now about think thinking thought seems like really actually",
	) {
		stopWords[w] = true
	}
}

// Mind is the cognitive workspace for a single agent. All mutating
// methods are expected to be called from one serialized owner (see
// concurrency model); callers needing concurrent access must serialize
// externally.
type Mind struct {
	agentID string
	log     *logging.Logger

	mu             sync.Mutex
	activeThoughts map[uuid.UUID]*thought.Thought
	streams        map[string]*thought.Stream
	heldInsights   []thought.Thought
	readyToShare   []thought.Thought
}

// New creates an empty Mind for an agent.
func New(agentID string, log *logging.Logger) *Mind {
	if log == nil {
		log = logging.Global()
	}
	return &Mind{
		agentID:        agentID,
		log:            log.WithComponent("mind"),
		activeThoughts: make(map[uuid.UUID]*thought.Thought),
		streams:        make(map[string]*thought.Stream),
	}
}

// AddThought stores a new thought and assigns it to an existing or new
// stream, triggering synthesis if the stream now qualifies.
func (m *Mind) AddThought(t thought.Thought) *thought.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := t
	m.activeThoughts[stored.ID] = &stored

	stream := m.findOrCreateStreamLocked(stored)
	stream.AddThought(stored)

	m.log.Debug("Added thought %s to stream %q (now %d thoughts)", stored.ID.String()[:8], stream.Topic, stream.ThoughtCount())

	if shouldSynthesize(stream) {
		stream.Status = thought.StreamNeedsSynthesis
		m.log.Debug("Stream %q marked for synthesis", stream.Topic)
	}

	return stream
}

// HoldInsight marks a thought as known but not queued for sharing.
func (m *Mind) HoldInsight(t thought.Thought) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.Externalized = false
	m.heldInsights = append(m.heldInsights, t)
}

// PrepareToShare queues a thought as ready to externalize when
// appropriate.
func (m *Mind) PrepareToShare(t thought.Thought) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.readyToShare {
		if existing.ID == t.ID {
			return
		}
	}
	m.readyToShare = append(m.readyToShare, t)
}

// GetBestContribution returns the best still-relevant ready thought,
// ranked by (completeness, confidence), or nil if nothing qualifies.
func (m *Mind) GetBestContribution() *thought.Thought {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *thought.Thought
	for i := range m.readyToShare {
		t := &m.readyToShare[i]
		if !t.StillRelevant {
			continue
		}
		if best == nil || betterContribution(*t, *best) {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

func betterContribution(a, b thought.Thought) bool {
	if a.Completeness != b.Completeness {
		return a.Completeness > b.Completeness
	}
	return a.Confidence > b.Confidence
}

// MarkExternalized marks a thought as having been shared and removes it
// from the ready-to-share queue. Idempotent.
func (m *Mind) MarkExternalized(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.activeThoughts[id]; ok {
		t.Externalized = true
		now := time.Now().UTC()
		t.ExternalizedAt = &now
	}

	filtered := m.readyToShare[:0]
	for _, t := range m.readyToShare {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	m.readyToShare = filtered
}

// InvalidateThoughtsAbout marks thoughts relating to a topic as no longer
// relevant and removes them from the ready-to-share queue. Idempotent;
// returns the number of active thoughts marked irrelevant plus the number
// of entries dropped from the ready-to-share queue by this call, so a
// thought held in both is counted twice.
func (m *Mind) InvalidateThoughtsAbout(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, t := range m.activeThoughts {
		if t.StillRelevant && relatesToTopic(t.Content, topic) {
			t.StillRelevant = false
			count++
		}
	}

	filtered := m.readyToShare[:0]
	for _, t := range m.readyToShare {
		if relatesToTopic(t.Content, topic) {
			count++
			continue
		}
		filtered = append(filtered, t)
	}
	m.readyToShare = filtered

	return count
}

// GetThoughtsForContext returns the n most recent active thoughts, most
// recent first.
func (m *Mind) GetThoughtsForContext(n int) []thought.Thought {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]thought.Thought, 0, len(m.activeThoughts))
	for _, t := range m.activeThoughts {
		all = append(all, *t)
	}
	sortByCreatedAtDesc(all)
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// GetStreamForTopic returns the first stream whose topic contains the
// given (lowercased) topic substring, or nil.
func (m *Mind) GetStreamForTopic(topic string) *thought.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	topicLower := strings.ToLower(topic)
	for _, s := range m.streams {
		if strings.Contains(strings.ToLower(s.Topic), topicLower) {
			return s
		}
	}
	return nil
}

// GetStreamsNeedingSynthesis returns every stream currently marked
// NEEDS_SYNTHESIS.
func (m *Mind) GetStreamsNeedingSynthesis() []*thought.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*thought.Stream
	for _, s := range m.streams {
		if s.Status == thought.StreamNeedsSynthesis {
			out = append(out, s)
		}
	}
	return out
}

func (m *Mind) findOrCreateStreamLocked(t thought.Thought) *thought.Stream {
	topic := extractTopic(t.Content)

	for _, s := range m.streams {
		if s.Status == thought.StreamActive || s.Status == thought.StreamPaused {
			if topicsRelated(s.Topic, topic) {
				return s
			}
		}
	}

	s := thought.NewStream(uuid.New().String(), topic)
	m.streams[s.ID] = s
	m.log.Debug("Created new stream for topic: %q", topic)
	return s
}

func shouldSynthesize(s *thought.Stream) bool {
	if s.Status != thought.StreamActive {
		return false
	}
	count := s.ThoughtCount()
	if count >= 3 {
		return true
	}
	if count >= 2 {
		if s.TimeSpanSeconds() > 30 && s.AvgConfidence() > 0.6 {
			return true
		}
	}
	return false
}

func extractTopic(content string) string {
	words := strings.Fields(strings.ToLower(content))
	significant := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) > 2 && !stopWords[w] {
			significant = append(significant, w)
		}
	}
	if len(significant) == 0 {
		if len(words) > 3 {
			words = words[:3]
		}
		return strings.Join(words, " ")
	}
	if len(significant) > 5 {
		significant = significant[:5]
	}
	return strings.Join(significant, " ")
}

func topicsRelated(a, b string) bool {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	for w := range wordsA {
		if wordsB[w] {
			return true
		}
	}
	return false
}

func relatesToTopic(content, topic string) bool {
	topicLower := strings.ToLower(topic)
	contentLower := strings.ToLower(content)
	if strings.Contains(contentLower, topicLower) {
		return true
	}
	topicWords := wordSet(topic)
	contentWords := wordSet(content)
	overlap := 0
	for w := range topicWords {
		if contentWords[w] {
			overlap++
		}
	}
	return overlap >= 2
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

func sortByCreatedAtDesc(ts []thought.Thought) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j].CreatedAt.After(ts[j-1].CreatedAt); j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

// State is a read-only snapshot of mind-level counters, for observability.
type State struct {
	AgentID                string
	ActiveThoughts         int
	Streams                int
	StreamsNeedingSynthesis int
	HeldInsights           int
	ReadyToShare           int
	StreamTopics           []string
}

// GetState returns a snapshot of mind state.
func (m *Mind) GetState() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	topics := make([]string, 0, len(m.streams))
	needingSynthesis := 0
	for _, s := range m.streams {
		topics = append(topics, s.Topic)
		if s.Status == thought.StreamNeedsSynthesis {
			needingSynthesis++
		}
	}

	return State{
		AgentID:                 m.agentID,
		ActiveThoughts:          len(m.activeThoughts),
		Streams:                 len(m.streams),
		StreamsNeedingSynthesis: needingSynthesis,
		HeldInsights:            len(m.heldInsights),
		ReadyToShare:            len(m.readyToShare),
		StreamTopics:            topics,
	}
}

// HeldInsights returns a copy of the held-insights queue.
func (m *Mind) HeldInsights() []thought.Thought {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]thought.Thought, len(m.heldInsights))
	copy(out, m.heldInsights)
	return out
}

// CleanupOldThoughts removes non-externalized thoughts older than
// maxAge, concluded streams, and zero-thought abandoned streams older
// than maxAge. Returns the number of thoughts removed.
func (m *Mind) CleanupOldThoughts(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	threshold := time.Now().UTC().Add(-maxAge)
	count := 0

	for id, t := range m.activeThoughts {
		if t.CreatedAt.Before(threshold) && !t.Externalized {
			delete(m.activeThoughts, id)
			count++
		}
	}

	for id, s := range m.streams {
		if s.Status == thought.StreamConcluded {
			delete(m.streams, id)
			continue
		}
		if s.Status == thought.StreamAbandoned && s.CreatedAt.Before(threshold) && s.ThoughtCount() == 0 {
			delete(m.streams, id)
		}
	}

	if count > 0 {
		m.log.Debug("Cleaned up %d old thoughts", count)
	}
	return count
}

// Clear resets all mind state. Useful for agent reset or test teardown.
func (m *Mind) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeThoughts = make(map[uuid.UUID]*thought.Thought)
	m.streams = make(map[string]*thought.Stream)
	m.heldInsights = nil
	m.readyToShare = nil
	m.log.Debug("Cleared mind for agent %s", m.agentID)
}
