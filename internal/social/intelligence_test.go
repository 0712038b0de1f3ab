package social

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexlabs/cogengine/internal/mind"
	"github.com/cortexlabs/cogengine/internal/profile"
)

func newTestProfile(name, role string) profile.AgentProfile {
	return profile.AgentProfile{
		AgentID: uuid.New(),
		Name:    name,
		Role:    role,
		Skills: profile.Skills{
			Domains: []profile.Skill{{Name: "database", Level: 9}},
		},
	}
}

func TestShouldISpeakMustRespondWhenDirectlyAddressed(t *testing.T) {
	agent := newTestProfile("Ada", "participant")
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	stimulus := DirectQuestion("what do you think?", "src-1", "Grace", "database", []string{"Ada"})
	decision := si.ShouldISpeak(stimulus, Context{GroupSize: 3})

	assert.Equal(t, MustRespond, decision.Intent)
	assert.True(t, decision.IsMandatory())
}

func TestShouldISpeakPassiveWhenNotMyArea(t *testing.T) {
	agent := newTestProfile("Ada", "participant")
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	stimulus := NewStimulus("anyone know a good recipe for bread?", "src-1", "Grace", "baking bread recipe")
	decision := si.ShouldISpeak(stimulus, Context{GroupSize: 3})

	assert.Equal(t, PassiveAwareness, decision.Intent)
	assert.False(t, decision.ShouldSpeak())
}

func TestShouldISpeakDefersToMoreExpertParticipant(t *testing.T) {
	agent := newTestProfile("Ada", "participant")
	agent.Skills = profile.Skills{Domains: []profile.Skill{{Name: "database", Level: 4}}}
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	stimulus := NewStimulus("what's the right database indexing strategy here?", "src-1", "Grace", "database indexing strategy")
	ctx := Context{
		GroupSize: 3,
		Participants: []ParticipantInfo{
			{AgentID: "expert-1", Name: "Hopper", ExpertiseAreas: []string{"database indexing"}, HasSpoken: false},
		},
	}
	decision := si.ShouldISpeak(stimulus, ctx)

	assert.Equal(t, ActiveListen, decision.Intent)
	assert.Contains(t, decision.Reason, "defer_to_expert")
}

func TestShouldISpeakWaitsWhenNoConversationalSpace(t *testing.T) {
	agent := newTestProfile("Ada", "participant")
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	stimulus := NewStimulus("thinking about database performance tuning", "src-1", "Grace", "database performance tuning")
	ctx := Context{
		GroupSize:       3,
		DiscussionPhase: PhaseClosing,
	}
	decision := si.ShouldISpeak(stimulus, ctx)

	assert.Equal(t, ActiveListen, decision.Intent)
	assert.Equal(t, "no_space", decision.Reason)
}

func TestShouldISpeakListensWhenAlreadySaidEnoughWithoutCriticalInput(t *testing.T) {
	agent := newTestProfile("Ada", "participant")
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	stimulus := NewStimulus("more thoughts on database schema design", "src-1", "Grace", "database schema design")
	ctx := Context{
		GroupSize:            3,
		MyRole:               "participant",
		SpeakingDistribution: map[string]int{agent.AgentID.String(): 8, "other": 1},
	}
	decision := si.ShouldISpeak(stimulus, ctx)

	assert.Equal(t, ActiveListen, decision.Intent)
	assert.Equal(t, "said_enough", decision.Reason)
}

func TestShouldISpeakListensWhenRoleIsObserver(t *testing.T) {
	agent := newTestProfile("Ada", "observer")
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	stimulus := NewStimulus("database indexing question for the room", "src-1", "Grace", "database indexing")
	ctx := Context{
		GroupSize: 3,
		MyRole:    "observer",
	}
	decision := si.ShouldISpeak(stimulus, ctx)

	assert.Equal(t, ActiveListen, decision.Intent)
	assert.Equal(t, "role_is_observer", decision.Reason)
}

func TestShouldISpeakContributesWhenRelevantAndSpaceAvailable(t *testing.T) {
	agent := newTestProfile("Ada", "participant")
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	stimulus := NewStimulus("what's your take on database schema design", "src-1", "Grace", "database schema design")
	ctx := Context{GroupSize: 3, MyRole: "participant"}
	decision := si.ShouldISpeak(stimulus, ctx)

	require.True(t, decision.ShouldSpeak())
	assert.Contains(t, []ExternalizationIntent{ShouldContribute, MayContribute}, decision.Intent)
}

func TestGetSpeakingConfidenceForTopicUsesSkillRelevance(t *testing.T) {
	agent := newTestProfile("Ada", "participant")
	si := New(agent, mind.New(agent.AgentID.String(), nil))

	assert.Greater(t, si.GetSpeakingConfidenceForTopic("database tuning"), 0.0)
	assert.Equal(t, 0.5, si.GetSpeakingConfidenceForTopic(""))
}
