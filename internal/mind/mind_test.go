package mind

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexlabs/cogengine/internal/thought"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

func newTestThought(content string, typ thought.Type, confidence, completeness float64) thought.Thought {
	return thought.NewThought(tiers.Reactive, content, typ, "test", confidence, completeness)
}

func TestAddThoughtCreatesAndReusesStreamByTopic(t *testing.T) {
	m := New("agent-1", nil)

	s1 := m.AddThought(newTestThought("the database migration is risky today", thought.TypeConcern, 0.7, 0.6))
	s2 := m.AddThought(newTestThought("that database migration needs a rollback plan", thought.TypeInsight, 0.6, 0.5))

	require.NotNil(t, s1)
	require.NotNil(t, s2)
	assert.Equal(t, s1.ID, s2.ID, "related thoughts about the same topic should land in the same stream")
	assert.Equal(t, 2, s2.ThoughtCount())
}

func TestAddThoughtTriggersSynthesisAtThreeThoughts(t *testing.T) {
	m := New("agent-1", nil)

	var stream *thought.Stream
	for i := 0; i < 3; i++ {
		stream = m.AddThought(newTestThought("deployment pipeline is flaky again", thought.TypeObservation, 0.7, 0.5))
	}

	assert.Equal(t, thought.StreamNeedsSynthesis, stream.Status)
}

func TestGetBestContributionRanksByCompletenessThenConfidence(t *testing.T) {
	m := New("agent-1", nil)

	low := newTestThought("a partial idea", thought.TypeInsight, 0.9, 0.3)
	high := newTestThought("a complete idea", thought.TypeInsight, 0.5, 0.9)

	m.PrepareToShare(low)
	m.PrepareToShare(high)

	best := m.GetBestContribution()
	require.NotNil(t, best)
	assert.Equal(t, high.ID, best.ID)
}

func TestGetBestContributionIgnoresStaleThoughts(t *testing.T) {
	m := New("agent-1", nil)

	stale := newTestThought("outdated take", thought.TypeInsight, 0.9, 0.9)
	stale.StillRelevant = false
	m.PrepareToShare(stale)

	assert.Nil(t, m.GetBestContribution())
}

func TestMarkExternalizedRemovesFromReadyQueue(t *testing.T) {
	m := New("agent-1", nil)
	tt := newTestThought("ready to share", thought.TypeInsight, 0.8, 0.8)
	m.AddThought(tt)
	m.PrepareToShare(tt)

	m.MarkExternalized(tt.ID)

	assert.Nil(t, m.GetBestContribution())
}

func TestInvalidateThoughtsAboutMarksMatchingThoughtsIrrelevant(t *testing.T) {
	m := New("agent-1", nil)
	relevant := newTestThought("the release schedule needs revisiting", thought.TypeConcern, 0.8, 0.7)
	unrelated := newTestThought("lunch plans for today", thought.TypeObservation, 0.6, 0.6)

	m.AddThought(relevant)
	m.AddThought(unrelated)
	m.PrepareToShare(relevant)
	m.PrepareToShare(unrelated)

	count := m.InvalidateThoughtsAbout("release schedule")

	// The relevant thought is tracked both in activeThoughts and in the
	// ready-to-share queue, so it's counted once per collection.
	assert.Equal(t, 2, count)
	best := m.GetBestContribution()
	require.NotNil(t, best)
	assert.Equal(t, unrelated.ID, best.ID)
}

func TestCleanupOldThoughtsRemovesStaleNonExternalized(t *testing.T) {
	m := New("agent-1", nil)
	old := newTestThought("ancient observation", thought.TypeObservation, 0.5, 0.5)
	old.CreatedAt = time.Now().UTC().Add(-1 * time.Hour)
	m.activeThoughts[old.ID] = &old

	removed := m.CleanupOldThoughts(30 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, m.GetState().ActiveThoughts)
}

func TestCleanupOldThoughtsKeepsExternalizedThoughts(t *testing.T) {
	m := New("agent-1", nil)
	old := newTestThought("already shared", thought.TypeObservation, 0.5, 0.5)
	old.CreatedAt = time.Now().UTC().Add(-1 * time.Hour)
	old.Externalized = true
	m.activeThoughts[old.ID] = &old

	removed := m.CleanupOldThoughts(30 * time.Minute)

	assert.Equal(t, 0, removed)
}

func TestExtractTopicFiltersStopwordsAndCaps(t *testing.T) {
	topic := extractTopic("I think that the new caching layer is probably going to help performance a lot")
	words := strings.Fields(topic)
	assert.LessOrEqual(t, len(words), 5)
	for _, w := range words {
		assert.NotEqual(t, "the", w)
	}
}
