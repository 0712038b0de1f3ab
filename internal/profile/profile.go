// Package profile defines AgentProfile, the read-only identity value the
// cognitive engine consumes but does not own or persist.
package profile

import (
	"strings"

	"github.com/google/uuid"
)

// Skill is a named capability with a 0-10 proficiency level.
type Skill struct {
	Name  string
	Level int
}

// Skills groups an agent's technical, domain, and soft skills.
type Skills struct {
	Technical []Skill
	Domains   []Skill
	Soft      []Skill
}

// All returns every skill across all categories.
func (s Skills) All() []Skill {
	out := make([]Skill, 0, len(s.Technical)+len(s.Domains)+len(s.Soft))
	out = append(out, s.Technical...)
	out = append(out, s.Domains...)
	out = append(out, s.Soft...)
	return out
}

// RelevanceScore scores how relevant this skill set is to a set of
// lowercased topic keywords. The match rule is intentionally the noisy
// substring-either-direction rule used by the reference implementation:
// a keyword matches a skill if either contains the other.
func (s Skills) RelevanceScore(keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.5
	}
	all := s.All()
	if len(all) == 0 {
		return 0
	}

	var matchedLevels float64
	var matchCount int
	for _, kw := range keywords {
		for _, sk := range all {
			name := strings.ToLower(sk.Name)
			if name == "" {
				continue
			}
			if strings.Contains(name, kw) || strings.Contains(kw, name) {
				matchedLevels += float64(sk.Level) / 10.0
				matchCount++
				break
			}
		}
	}
	if matchCount == 0 {
		return 0
	}
	return matchedLevels / float64(matchCount)
}

// PersonalityMarkers are the 8 personality axes, each 0-10.
type PersonalityMarkers struct {
	Openness          int
	Conscientiousness int
	Extraversion      int
	Agreeableness     int
	Neuroticism       int
	Perfectionism     int
	Pragmatism        int
	RiskTolerance     int
}

// SocialMarkers are the 9 social axes, each 0-10.
type SocialMarkers struct {
	Confidence           int
	Assertiveness        int
	Deference            int
	Curiosity            int
	SocialCalibration    int
	StatusSensitivity    int
	FacilitationInstinct int
	ComfortInSpotlight   int
	ComfortWithConflict  int
}

// VocabularyLevel describes communication register.
type VocabularyLevel string

const (
	VocabularySimple    VocabularyLevel = "simple"
	VocabularyModerate  VocabularyLevel = "moderate"
	VocabularyTechnical VocabularyLevel = "technical"
	VocabularyAcademic  VocabularyLevel = "academic"
)

// CommunicationStyle describes how an agent tends to express itself.
type CommunicationStyle struct {
	VocabularyLevel    VocabularyLevel
	SentenceStructure  string
	Formality          string
}

// AgentProfile is the read-only identity the engine processes as. It is
// consumed by value; the engine never persists or mutates it.
type AgentProfile struct {
	AgentID            uuid.UUID
	Name               string
	Role               string
	BackstorySummary   string
	YearsExperience    *int
	Skills             Skills
	PersonalityMarkers PersonalityMarkers
	SocialMarkers      SocialMarkers
	CommunicationStyle CommunicationStyle
	KnowledgeDomains   []string
	KnowledgeGaps      []string
}
