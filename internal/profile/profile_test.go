package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceScoreEmptyKeywordsReturnsNeutral(t *testing.T) {
	s := Skills{Technical: []Skill{{Name: "go", Level: 8}}}
	assert.Equal(t, 0.5, s.RelevanceScore(nil))
}

func TestRelevanceScoreNoSkillsReturnsZero(t *testing.T) {
	var s Skills
	assert.Equal(t, 0.0, s.RelevanceScore([]string{"anything"}))
}

func TestRelevanceScoreMatchesEitherDirectionSubstring(t *testing.T) {
	s := Skills{Domains: []Skill{{Name: "database", Level: 10}}}
	// keyword is a substring of the skill name
	assert.Equal(t, 1.0, s.RelevanceScore([]string{"data"}))
}

func TestRelevanceScoreAveragesOverMatchedKeywordsOnly(t *testing.T) {
	s := Skills{Domains: []Skill{{Name: "database", Level: 10}}}
	// "database" matches (level 10 -> 1.0), "weather" doesn't match at all
	score := s.RelevanceScore([]string{"database", "weather"})
	assert.Equal(t, 1.0, score)
}

func TestRelevanceScoreNoMatchesReturnsZero(t *testing.T) {
	s := Skills{Domains: []Skill{{Name: "database", Level: 10}}}
	assert.Equal(t, 0.0, s.RelevanceScore([]string{"weather"}))
}

func TestAllCombinesEveryCategory(t *testing.T) {
	s := Skills{
		Technical: []Skill{{Name: "go", Level: 8}},
		Domains:   []Skill{{Name: "database", Level: 9}},
		Soft:      []Skill{{Name: "mentoring", Level: 7}},
	}
	assert.Len(t, s.All(), 3)
}
