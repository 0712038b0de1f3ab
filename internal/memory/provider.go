// Package memory supplies prior-context snippets to promptbuilder.Context
// so prompts for the deeper cognitive tiers can reference what an agent
// has previously said or learned about a topic.
package memory

import "context"

// Entry is one remembered observation, keyed by the topic it concerns.
type Entry struct {
	Topic   string
	Content string
}

// ContextProvider stores and retrieves an agent's recent memory entries.
// Fetch returns them pre-formatted for direct use as
// promptbuilder.Context.RelevantMemory.
type ContextProvider interface {
	Remember(ctx context.Context, agentID string, entry Entry) error
	Fetch(ctx context.Context, agentID, topic string, limit int) (string, error)
	Close() error
}
