package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStimulusAutoExtractsTopicFromContent(t *testing.T) {
	s := NewStimulus("the deployment pipeline keeps failing on the staging cluster", "src-1", "Ada", "")
	assert.NotEmpty(t, s.Topic)
	assert.Contains(t, s.Topic, "deployment")
	assert.NotContains(t, s.Topic, "the")
}

func TestNewStimulusKeepsExplicitTopic(t *testing.T) {
	s := NewStimulus("anything at all", "src-1", "Ada", "explicit topic")
	assert.Equal(t, "explicit topic", s.Topic)
}

func TestDirectQuestionSetsRequiresResponseAndPriority(t *testing.T) {
	s := DirectQuestion("can you review this PR?", "src-1", "Ada", "code review", []string{"Grace"})
	assert.True(t, s.RequiresResponse)
	assert.Equal(t, 0.8, s.Priority)
	assert.True(t, s.IsDirected())
	assert.False(t, s.IsBroadcast())
}

func TestIsDirectedAtMatchesIDOrNameCaseInsensitively(t *testing.T) {
	s := DirectQuestion("hello", "src-1", "Ada", "greeting", []string{"grace"})
	assert.True(t, s.IsDirectedAt("agent-42", "Grace"))
	assert.False(t, s.IsDirectedAt("agent-42", "Hopper"))
}

func TestMentionsAgentMatchesNameOrAtMention(t *testing.T) {
	s := NewStimulus("hey @grace can you take a look at this", "src-1", "Ada", "")
	assert.True(t, s.MentionsAgent("Grace"))
	assert.False(t, s.MentionsAgent("Hopper"))
}

func TestExtractKeywordsTrimsPunctuationAndStopwords(t *testing.T) {
	s := Stimulus{Content: "Is the deploy, really, ready? Yes!"}
	kw := s.ExtractKeywords()
	assert.Contains(t, kw, "deploy")
	assert.Contains(t, kw, "ready")
	assert.NotContains(t, kw, "is")
	assert.NotContains(t, kw, "the")
}

func TestBroadcastStimulusIsNotDirectedAtAnyone(t *testing.T) {
	s := NewStimulus("anyone have thoughts on this?", "src-1", "Ada", "")
	assert.True(t, s.IsBroadcast())
	assert.False(t, s.IsDirectedAt("agent-1", "Grace"))
}
