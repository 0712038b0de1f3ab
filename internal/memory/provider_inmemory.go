package memory

import (
	"context"
	"strings"
	"sync"
)

// InMemoryProvider is a ContextProvider backed by a process-local map.
// Used in tests and single-process deployments that don't run Redis.
type InMemoryProvider struct {
	mu      sync.Mutex
	entries map[string][]string
	maxKept int
}

// NewInMemoryProvider creates an InMemoryProvider retaining up to
// maxKept entries per agent+topic (default 50).
func NewInMemoryProvider(maxKept int) *InMemoryProvider {
	if maxKept <= 0 {
		maxKept = 50
	}
	return &InMemoryProvider{entries: make(map[string][]string), maxKept: maxKept}
}

// Remember prepends entry.Content to the agent+topic list, trimming to
// maxKept.
func (p *InMemoryProvider) Remember(ctx context.Context, agentID string, entry Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := memoryKey(agentID, entry.Topic)
	list := append([]string{entry.Content}, p.entries[key]...)
	if len(list) > p.maxKept {
		list = list[:p.maxKept]
	}
	p.entries[key] = list
	return nil
}

// Fetch returns up to limit of the most recent entries, newest first.
func (p *InMemoryProvider) Fetch(ctx context.Context, agentID, topic string, limit int) (string, error) {
	if limit <= 0 {
		limit = 5
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	list := p.entries[memoryKey(agentID, topic)]
	if len(list) > limit {
		list = list[:limit]
	}
	return strings.Join(list, "\n"), nil
}

// Close is a no-op.
func (p *InMemoryProvider) Close() error { return nil }
