// Package social implements the social-intelligence layer: the
// decision of whether, when, and how an agent should externalize a
// thought given who else is present and how the conversation is going.
package social

import (
	"strings"
	"time"
)

var stimulusStopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(
		"the a an is are was were be been being have has had do does did will would " +
			"could should may might must shall can need dare ought used to of in for on " +
			"with at by from as into through during before after above below between " +
			"under again further then once here there when where why how all each few " +
			"more most other some such no nor not only own same so than too very just " +
			"and but if or because until while about against this that these those it " +
			"its i you we they he she my your our their his her",
	) {
		stimulusStopWords[w] = true
	}
}

// Stimulus is an incoming message, event, or communication an agent may
// need to evaluate for a speaking decision.
type Stimulus struct {
	Content          string
	SourceID         string
	SourceName       string
	DirectedAt       []string // empty = broadcast to all
	Topic            string
	Timestamp        time.Time
	Priority         float64
	RequiresResponse bool
}

// NewStimulus builds a Stimulus from a plain message, auto-extracting a
// topic from its content if none is given.
func NewStimulus(content, sourceID, sourceName, topic string) Stimulus {
	s := Stimulus{
		Content:    content,
		SourceID:   sourceID,
		SourceName: sourceName,
		Topic:      topic,
		Timestamp:  time.Now().UTC(),
		Priority:   0.5,
	}
	if s.Topic == "" {
		if kw := s.ExtractKeywords(); len(kw) > 0 {
			if len(kw) > 5 {
				kw = kw[:5]
			}
			s.Topic = strings.Join(kw, " ")
		}
	}
	return s
}

// DirectQuestion builds a Stimulus representing a direct question
// requiring a response.
func DirectQuestion(content, sourceID, sourceName, topic string, directedAt []string) Stimulus {
	return Stimulus{
		Content:          content,
		SourceID:         sourceID,
		SourceName:       sourceName,
		DirectedAt:       directedAt,
		Topic:            topic,
		Timestamp:        time.Now().UTC(),
		RequiresResponse: true,
		Priority:         0.8,
	}
}

// IsBroadcast reports whether this stimulus is directed at nobody in
// particular.
func (s Stimulus) IsBroadcast() bool {
	return len(s.DirectedAt) == 0
}

// IsDirected reports whether this stimulus names specific recipients.
func (s Stimulus) IsDirected() bool {
	return len(s.DirectedAt) > 0
}

// IsDirectedAt reports whether agentID or agentName appears in
// DirectedAt.
func (s Stimulus) IsDirectedAt(agentID, agentName string) bool {
	if s.DirectedAt == nil {
		return false
	}
	for _, target := range s.DirectedAt {
		if target == agentID {
			return true
		}
		if agentName != "" && strings.EqualFold(target, agentName) {
			return true
		}
	}
	return false
}

// MentionsAgent reports whether the content mentions agentName, either
// by name or @mention.
func (s Stimulus) MentionsAgent(agentName string) bool {
	contentLower := strings.ToLower(s.Content)
	nameLower := strings.ToLower(agentName)
	if nameLower == "" {
		return false
	}
	if strings.Contains(contentLower, nameLower) {
		return true
	}
	return strings.Contains(contentLower, "@"+nameLower)
}

// ExtractKeywords pulls lowercase, stopword-filtered, punctuation-trimmed
// keywords out of the stimulus content, for topic matching.
func (s Stimulus) ExtractKeywords() []string {
	words := strings.Fields(strings.ToLower(s.Content))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		trimmed := strings.Trim(w, ".,!?;:\"'()[]{}")
		if len(trimmed) > 2 && !stimulusStopWords[trimmed] {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
