package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGroupBoundaries(t *testing.T) {
	cases := map[int]GroupType{
		0:   GroupSolo,
		1:   GroupSolo,
		2:   GroupPair,
		3:   GroupSmallTeam,
		6:   GroupSmallTeam,
		7:   GroupMeeting,
		20:  GroupMeeting,
		21:  GroupLargeGroup,
		100: GroupLargeGroup,
		101: GroupArmy,
	}
	for size, want := range cases {
		assert.Equal(t, want, ClassifyGroup(size), "size=%d", size)
	}
}

func TestContextGroupTypeDelegatesToClassifyGroup(t *testing.T) {
	ctx := Context{GroupSize: 5}
	assert.Equal(t, GroupSmallTeam, ctx.GroupType())
}

func TestUpdateSpeakerIncrementsDistributionAndParticipant(t *testing.T) {
	ctx := Context{
		Participants: []ParticipantInfo{{AgentID: "a1", Name: "Ada"}},
	}
	ctx.UpdateSpeaker("a1")
	ctx.UpdateSpeaker("a1")

	assert.Equal(t, "a1", ctx.CurrentSpeaker)
	assert.Equal(t, 2, ctx.SpeakingDistribution["a1"])
	p, ok := ctx.GetParticipant("a1")
	assert.True(t, ok)
	assert.True(t, p.HasSpoken)
	assert.Equal(t, 2, p.ContributionCount)
}

func TestFairShareAndContributionShare(t *testing.T) {
	ctx := Context{
		GroupSize:            4,
		SpeakingDistribution: map[string]int{"a1": 3, "a2": 1},
	}
	assert.Equal(t, 0.25, ctx.FairShare())
	assert.Equal(t, 0.75, ctx.ContributionShare("a1"))
	assert.Equal(t, 0.0, ctx.ContributionShare("a3"))
}

func TestParticipantsWithExpertiseMatchesEitherDirection(t *testing.T) {
	ctx := Context{
		ExpertisePresent: map[string][]string{"database tuning": {"a1"}},
	}
	assert.ElementsMatch(t, []string{"a1"}, ctx.ParticipantsWithExpertise("database"))
	assert.True(t, ctx.HasExpertFor("a question about database performance"))
	assert.False(t, ctx.HasExpertFor("weekend plans"))
}
