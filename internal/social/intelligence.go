package social

import (
	"strings"

	"github.com/cortexlabs/cogengine/internal/logging"
	"github.com/cortexlabs/cogengine/internal/mind"
	"github.com/cortexlabs/cogengine/internal/profile"
	"github.com/cortexlabs/cogengine/internal/thought"
)

var roleMultiplier = map[string]float64{
	"facilitator": 2.0,
	"leader":      1.5,
	"expert":      1.3,
	"participant": 1.0,
	"junior":      0.8,
	"observer":    0.3,
}

var roleBehavior = map[string]string{
	"facilitator": "enable_others",
	"expert":      "contribute_in_domain",
	"participant": "contribute_when_relevant",
	"observer":    "mostly_listen",
	"leader":      "guide_and_decide",
	"junior":      "learn_and_ask",
}

var contributionThreshold = map[GroupType]float64{
	GroupSolo:       0.0,
	GroupPair:       0.3,
	GroupSmallTeam:  0.4,
	GroupMeeting:    0.5,
	GroupLargeGroup: 0.7,
	GroupArmy:       0.9,
}

// Intelligence evaluates social context to decide if and when an agent
// should speak. It is what makes external turn-taking orchestration
// unnecessary: agents independently judge whether their contribution
// would be valuable right now.
type Intelligence struct {
	agent profile.AgentProfile
	mind  *mind.Mind
	log   *logging.Logger
}

// New creates social Intelligence for an agent over its Mind.
func New(agent profile.AgentProfile, m *mind.Mind) *Intelligence {
	return &Intelligence{
		agent: agent,
		mind:  m,
		log:   logging.Global().WithComponent("social"),
	}
}

// ShouldISpeak is the core decision: evaluate stimulus against context
// and decide whether to externalize.
func (si *Intelligence) ShouldISpeak(stimulus Stimulus, ctx Context) Decision {
	factors := map[string]any{}

	if si.amIDirectlyAddressed(stimulus) {
		si.log.Debug("Agent %s directly addressed, must respond", si.agent.Name)
		return mustRespondDecision("directly_addressed", ContributionResponse, map[string]any{"directly_addressed": true})
	}

	relevance := si.calculateExpertiseMatch(stimulus.Topic)
	factors["expertise_relevance"] = relevance

	if relevance < 0.3 {
		si.log.Debug("Agent %s has low relevance (%.2f) for topic %q", si.agent.Name, relevance, stimulus.Topic)
		return passiveAwarenessDecision(0.9, "not_my_area", factors)
	}

	shouldDefer, deferTo := si.shouldDeferToExpert(stimulus.Topic, ctx)
	factors["should_defer"] = shouldDefer
	factors["defer_to"] = deferTo

	if shouldDefer {
		si.log.Debug("Agent %s deferring to %s on topic %q", si.agent.Name, deferTo, stimulus.Topic)
		return activeListenDecision(0.7, "defer_to_expert:"+deferTo, TimingWhenAsked, factors)
	}

	hasSpace := si.isThereConversationalSpace(ctx)
	factors["conversational_space"] = hasSpace

	if !hasSpace {
		si.log.Debug("Agent %s waiting for conversational space", si.agent.Name)
		return activeListenDecision(0.8, "no_space", TimingWaitForOpening, factors)
	}

	saidEnough := si.haveISaidEnough(ctx)
	factors["said_enough"] = saidEnough

	if saidEnough {
		hasCritical := si.doIHaveCriticalInput()
		factors["has_critical_input"] = hasCritical
		if !hasCritical {
			si.log.Debug("Agent %s has said enough, listening", si.agent.Name)
			return activeListenDecision(0.6, "said_enough", TimingWhenAsked, factors)
		}
	}

	roleSuggests := si.whatDoesRoleSuggest(ctx)
	factors["role_suggests"] = roleSuggests

	if roleSuggests == "mostly_listen" {
		si.log.Debug("Agent %s role suggests listening", si.agent.Name)
		return activeListenDecision(0.7, "role_is_observer", TimingWhenAsked, factors)
	}

	threshold := si.getContributionThreshold(ctx.GroupType())
	factors["contribution_threshold"] = threshold
	factors["group_type"] = string(ctx.GroupType())

	if relevance < threshold {
		si.log.Debug("Agent %s below threshold (%.2f < %.2f) for group type", si.agent.Name, relevance, threshold)
		return mayContributeDecision(relevance, "below_threshold_for_group_size", TimingWhenAsked, si.determineContributionType(ctx), factors)
	}

	contributionType := si.determineContributionType(ctx)
	factors["contribution_type"] = string(contributionType)

	if relevance > 0.6 {
		si.log.Debug("Agent %s deciding to contribute (intent=should, relevance=%.2f)", si.agent.Name, relevance)
		return shouldContributeDecision(relevance, "have_valuable_input", contributionType, factors)
	}

	si.log.Debug("Agent %s deciding to contribute (intent=may, relevance=%.2f)", si.agent.Name, relevance)
	return mayContributeDecision(relevance, "have_valuable_input", TimingNow, contributionType, factors)
}

func (si *Intelligence) amIDirectlyAddressed(stimulus Stimulus) bool {
	myID := si.agent.AgentID.String()
	myName := si.agent.Name

	if stimulus.IsDirectedAt(myID, myName) {
		return true
	}
	if stimulus.MentionsAgent(myName) {
		return true
	}
	if stimulus.RequiresResponse && stimulus.IsDirected() && stimulus.IsDirectedAt(myID, myName) {
		return true
	}
	return false
}

func (si *Intelligence) calculateExpertiseMatch(topic string) float64 {
	if topic == "" {
		return 0.5
	}
	keywords := strings.Fields(strings.ToLower(topic))
	return si.agent.Skills.RelevanceScore(keywords)
}

func (si *Intelligence) haveISaidEnough(ctx Context) bool {
	myID := si.agent.AgentID.String()
	myContributions := ctx.SpeakingDistribution[myID]
	total := ctx.TotalContributions()
	if total == 0 {
		return false
	}

	myShare := float64(myContributions) / float64(total)
	fairShare := ctx.FairShare()

	multiplier, ok := roleMultiplier[ctx.MyRole]
	if !ok {
		multiplier = 1.0
	}
	expectedShare := fairShare * multiplier

	return myShare > expectedShare*1.5
}

func (si *Intelligence) doIHaveCriticalInput() bool {
	if best := si.mind.GetBestContribution(); best != nil && best.Confidence > 0.8 && best.Type == thought.TypeConcern {
		return true
	}
	for _, t := range si.mind.HeldInsights() {
		if t.Confidence > 0.85 && t.Type == thought.TypeConcern {
			return true
		}
	}
	return false
}

func (si *Intelligence) shouldDeferToExpert(topic string, ctx Context) (bool, string) {
	myExpertise := si.calculateExpertiseMatch(topic)
	var keywords []string
	if topic != "" {
		keywords = strings.Fields(strings.ToLower(topic))
	}

	myID := si.agent.AgentID.String()
	for _, p := range ctx.Participants {
		if p.AgentID == myID {
			continue
		}
		theirExpertise := estimateParticipantExpertise(p, keywords)
		if theirExpertise > myExpertise+0.2 && !p.HasSpoken {
			return true, p.Name
		}
	}
	return false, ""
}

func estimateParticipantExpertise(p ParticipantInfo, keywords []string) float64 {
	if len(p.ExpertiseAreas) == 0 {
		return 0.5
	}
	if len(keywords) == 0 {
		return 0.5
	}

	expertiseLower := make([]string, len(p.ExpertiseAreas))
	for i, e := range p.ExpertiseAreas {
		expertiseLower[i] = strings.ToLower(e)
	}

	matches := 0
	for _, kw := range keywords {
		for _, e := range expertiseLower {
			if strings.Contains(e, kw) || strings.Contains(kw, e) {
				matches++
				break
			}
		}
	}

	score := float64(matches)/float64(len(keywords)) + 0.3
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func (si *Intelligence) isThereConversationalSpace(ctx Context) bool {
	if ctx.CurrentSpeaker != "" && ctx.CurrentSpeaker != si.agent.AgentID.String() {
		return false
	}
	if ctx.DiscussionPhase == PhaseClosing {
		return false
	}
	if ctx.EnergyLevel == EnergyHeated {
		return si.agent.SocialMarkers.ComfortWithConflict >= 6
	}
	return true
}

func (si *Intelligence) whatDoesRoleSuggest(ctx Context) string {
	if behavior, ok := roleBehavior[ctx.MyRole]; ok {
		return behavior
	}
	return "assess_situation"
}

func (si *Intelligence) getContributionThreshold(groupType GroupType) float64 {
	if threshold, ok := contributionThreshold[groupType]; ok {
		return threshold
	}
	return 0.5
}

func (si *Intelligence) determineContributionType(ctx Context) ContributionType {
	sm := si.agent.SocialMarkers

	if sm.Curiosity >= 7 {
		return ContributionQuestion
	}
	if sm.FacilitationInstinct >= 7 && (ctx.MyRole == "facilitator" || ctx.MyRole == "leader") {
		return ContributionFacilitation
	}
	if sm.Assertiveness >= 7 && sm.ComfortWithConflict >= 6 {
		return ContributionChallenge
	}
	return ContributionStatement
}

// GetSpeakingConfidenceForTopic reports how confident the agent would
// be speaking on topic, independent of social context.
func (si *Intelligence) GetSpeakingConfidenceForTopic(topic string) float64 {
	return si.calculateExpertiseMatch(topic)
}
