// Package promptbuilder assembles tier-scaled plain-text prompts from an
// AgentProfile, a stimulus, and optional context.
package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/cortexlabs/cogengine/internal/profile"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

// Context carries the named, enumerated context fields Process and prompt
// building recognize. Unknown fields passed by a caller are ignored.
type Context struct {
	RecentTurns    string
	RelevantMemory string
	PriorThoughts  string
	Patterns       string
	Relationships  string
	ProjectHistory string
	StreamTopic    string
	ThoughtCount   int
}

// Builder builds prompts scaled to cognitive tier depth.
type Builder struct {
	catalog *tiers.Catalog
}

// New creates a prompt Builder.
func New() *Builder {
	return &Builder{catalog: tiers.NewCatalog()}
}

// Build assembles a prompt for a tier given an agent, stimulus, purpose,
// and optional context.
func (b *Builder) Build(tier tiers.CognitiveTier, agent profile.AgentProfile, stimulus, purpose string, ctx Context) string {
	var sb strings.Builder

	switch tier {
	case tiers.Reflex:
		fmt.Fprintf(&sb, "You are %s, a %s.\n\n", agent.Name, agent.Role)
		sb.WriteString(stimulus)
		sb.WriteString("\n\nIMMEDIATE REACTION (one brief thought):")

	case tiers.Reactive:
		sb.WriteString(briefIdentity(agent))
		if ctx.RecentTurns != "" {
			fmt.Fprintf(&sb, "\nRecent turns:\n%s\n", ctx.RecentTurns)
		}
		fmt.Fprintf(&sb, "\n%s\n\nYour quick assessment (2-3 sentences):", stimulus)

	case tiers.Deliberate:
		sb.WriteString(fullIdentity(agent))
		sb.WriteString(socialStyleSummary(agent))
		writeOptional(&sb, "Relevant memory", ctx.RelevantMemory)
		writeOptional(&sb, "Prior thoughts", ctx.PriorThoughts)
		fmt.Fprintf(&sb, "\nSituation:\n%s\n\nProvide your considered thoughts:", stimulus)

	case tiers.Analytical:
		sb.WriteString(fullIdentity(agent))
		writeOptional(&sb, "Relevant memory", ctx.RelevantMemory)
		writeOptional(&sb, "Patterns", ctx.Patterns)
		writeOptional(&sb, "Relationships", ctx.Relationships)
		writeOptional(&sb, "Prior thoughts", ctx.PriorThoughts)
		fmt.Fprintf(&sb, "\nSituation:\n%s\n\n%s", stimulus, analyticalTemplate)

	case tiers.Comprehensive:
		sb.WriteString(fullIdentity(agent))
		sb.WriteString(personalityStyleSummary(agent))
		writeOptional(&sb, "Relevant memory", ctx.RelevantMemory)
		writeOptional(&sb, "Patterns", ctx.Patterns)
		writeOptional(&sb, "Relationships", ctx.Relationships)
		writeOptional(&sb, "Project history", ctx.ProjectHistory)
		writeOptional(&sb, "Prior thoughts", ctx.PriorThoughts)
		fmt.Fprintf(&sb, "\nSituation:\n%s\n\n%s", stimulus, comprehensiveTemplate)

	default:
		fmt.Fprintf(&sb, "You are %s.\n\n%s", agent.Name, stimulus)
	}

	prompt := sb.String()
	return b.truncate(tier, prompt)
}

// FormatPriorThoughts bullet-formats up to the last 3 thought contents for
// inclusion as prior-thoughts context.
func FormatPriorThoughts(contents []string) string {
	start := 0
	if len(contents) > 3 {
		start = len(contents) - 3
	}
	var sb strings.Builder
	for _, c := range contents[start:] {
		fmt.Fprintf(&sb, "- %s\n", c)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func briefIdentity(agent profile.AgentProfile) string {
	top := topSkillNames(agent, 3)
	return fmt.Sprintf("You are %s, a %s. Skills: %s.\n", agent.Name, agent.Role, strings.Join(top, ", "))
}

func fullIdentity(agent profile.AgentProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, a %s.\n", agent.Name, agent.Role)
	if agent.BackstorySummary != "" {
		fmt.Fprintf(&sb, "%s\n", agent.BackstorySummary)
	}
	top := topSkillsWithLevels(agent, 5)
	if len(top) > 0 {
		fmt.Fprintf(&sb, "Skills: %s.\n", strings.Join(top, ", "))
	}
	if len(agent.KnowledgeDomains) > 0 {
		fmt.Fprintf(&sb, "Knowledge domains: %s.\n", strings.Join(agent.KnowledgeDomains, ", "))
	}
	fmt.Fprintf(&sb, "Communication style: %s.\n", agent.CommunicationStyle.VocabularyLevel)
	return sb.String()
}

func socialStyleSummary(agent profile.AgentProfile) string {
	sm := agent.SocialMarkers
	return fmt.Sprintf("Social style: assertiveness %d/10, curiosity %d/10, comfort with conflict %d/10.\n",
		sm.Assertiveness, sm.Curiosity, sm.ComfortWithConflict)
}

func personalityStyleSummary(agent profile.AgentProfile) string {
	pm := agent.PersonalityMarkers
	return fmt.Sprintf("Personality: openness %d/10, conscientiousness %d/10, risk tolerance %d/10.\n",
		pm.Openness, pm.Conscientiousness, pm.RiskTolerance)
}

func topSkillNames(agent profile.AgentProfile, n int) []string {
	all := agent.Skills.All()
	sortSkillsByLevel(all)
	if n > len(all) {
		n = len(all)
	}
	names := make([]string, 0, n)
	for _, sk := range all[:n] {
		names = append(names, sk.Name)
	}
	return names
}

func topSkillsWithLevels(agent profile.AgentProfile, n int) []string {
	all := agent.Skills.All()
	sortSkillsByLevel(all)
	if n > len(all) {
		n = len(all)
	}
	out := make([]string, 0, n)
	for _, sk := range all[:n] {
		out = append(out, fmt.Sprintf("%s (%d/10)", sk.Name, sk.Level))
	}
	return out
}

func sortSkillsByLevel(skills []profile.Skill) {
	for i := 1; i < len(skills); i++ {
		for j := i; j > 0 && skills[j].Level > skills[j-1].Level; j-- {
			skills[j], skills[j-1] = skills[j-1], skills[j]
		}
	}
}

func writeOptional(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n%s\n", label, value)
}

const analyticalTemplate = `Provide a structured analysis:
1. What is actually happening here?
2. What are the underlying causes?
3. What options are available?
4. What are the risks of each option?
5. What is your recommendation?`

const comprehensiveTemplate = `Provide a comprehensive analysis:
1. What is actually happening here?
2. What are the underlying causes?
3. Who are the stakeholders affected?
4. What options are available?
5. What are the risks of each option?
6. What is your recommendation?
7. What are the concrete next steps?`

// truncate caps prompt length at tier.maxContextTokens using a chars≈tokens×4
// heuristic, appending a truncation suffix when it trims.
func (b *Builder) truncate(tier tiers.CognitiveTier, prompt string) string {
	cfg, ok := b.catalog.GetTier(tier)
	if !ok {
		return prompt
	}
	maxChars := cfg.MaxContextTokens * 4
	if maxChars <= 0 || len(prompt) <= maxChars {
		return prompt
	}
	const suffix = "...[truncated]"
	cut := maxChars - len(suffix)
	if cut < 0 {
		cut = 0
	}
	return prompt[:cut] + suffix
}
