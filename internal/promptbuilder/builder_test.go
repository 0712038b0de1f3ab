package promptbuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cortexlabs/cogengine/internal/profile"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

func testAgent() profile.AgentProfile {
	return profile.AgentProfile{
		Name: "Ada",
		Role: "engineer",
		Skills: profile.Skills{
			Technical: []profile.Skill{{Name: "go", Level: 8}, {Name: "distributed systems", Level: 9}},
		},
		CommunicationStyle: profile.CommunicationStyle{VocabularyLevel: profile.VocabularyTechnical},
	}
}

func TestBuildReflexPromptIsTerseAndHasNoIdentityBlock(t *testing.T) {
	b := New()
	prompt := b.Build(tiers.Reflex, testAgent(), "the build just failed", "observation", Context{})
	assert.Contains(t, prompt, "the build just failed")
	assert.Contains(t, prompt, "IMMEDIATE REACTION")
	assert.NotContains(t, prompt, "Knowledge domains")
}

func TestBuildComprehensivePromptIncludesAllOptionalSections(t *testing.T) {
	b := New()
	ctx := Context{
		RelevantMemory: "we tried this before",
		Patterns:       "pattern A",
		Relationships:  "reports to Grace",
		ProjectHistory: "v1 shipped last quarter",
		PriorThoughts:  "- earlier idea",
	}
	prompt := b.Build(tiers.Comprehensive, testAgent(), "what should we do", "analysis", ctx)

	for _, want := range []string{"Relevant memory", "Patterns", "Relationships", "Project history", "Prior thoughts", "comprehensive analysis"} {
		assert.Containsf(t, strings.ToLower(prompt), strings.ToLower(want), "missing section %q", want)
	}
}

func TestBuildOmitsEmptyOptionalSections(t *testing.T) {
	b := New()
	prompt := b.Build(tiers.Deliberate, testAgent(), "a situation", "thinking", Context{})
	assert.NotContains(t, prompt, "Relevant memory")
	assert.NotContains(t, prompt, "Prior thoughts")
}

func TestBuildTruncatesOversizedPrompt(t *testing.T) {
	b := New()
	huge := strings.Repeat("word ", 5000)
	prompt := b.Build(tiers.Reflex, testAgent(), huge, "observation", Context{})
	assert.True(t, strings.HasSuffix(prompt, "...[truncated]"))
}

func TestFormatPriorThoughtsKeepsOnlyLastThree(t *testing.T) {
	out := FormatPriorThoughts([]string{"one", "two", "three", "four"})
	assert.NotContains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.Contains(t, out, "three")
	assert.Contains(t, out, "four")
}

func TestFullIdentityListsTopSkillsByLevel(t *testing.T) {
	b := New()
	prompt := b.Build(tiers.Deliberate, testAgent(), "status update", "observation", Context{})
	goIdx := strings.Index(prompt, "go (")
	dsIdx := strings.Index(prompt, "distributed systems (")
	assert.GreaterOrEqual(t, goIdx, 0)
	assert.GreaterOrEqual(t, dsIdx, 0)
	assert.Less(t, dsIdx, goIdx, "higher-level skill should be listed first")
}
