package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const entryTTL = 7 * 24 * time.Hour

// RedisProvider persists memory entries in Redis lists, one per
// agent+topic, trimmed to a bounded recent window. Used in deployments
// where the cognitive engine runs as more than one process and agents
// need to share remembered context across restarts.
type RedisProvider struct {
	client  *redis.Client
	maxKept int64
}

// RedisConfig configures a RedisProvider's connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// MaxKept bounds how many entries are retained per agent+topic key
	// (default 50).
	MaxKept int64
}

// NewRedisProvider dials addr lazily; the first command establishes the
// connection.
func NewRedisProvider(cfg RedisConfig) *RedisProvider {
	maxKept := cfg.MaxKept
	if maxKept <= 0 {
		maxKept = 50
	}
	return &RedisProvider{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		maxKept: maxKept,
	}
}

func memoryKey(agentID, topic string) string {
	return fmt.Sprintf("cogengine:memory:%s:%s", agentID, strings.ToLower(strings.TrimSpace(topic)))
}

// Remember prepends entry.Content to the agent+topic list, trimming to
// maxKept and refreshing the key's TTL.
func (p *RedisProvider) Remember(ctx context.Context, agentID string, entry Entry) error {
	key := memoryKey(agentID, entry.Topic)

	pipe := p.client.TxPipeline()
	pipe.LPush(ctx, key, entry.Content)
	pipe.LTrim(ctx, key, 0, p.maxKept-1)
	pipe.Expire(ctx, key, entryTTL)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("memory: remember: %w", err)
	}
	return nil
}

// Fetch returns up to limit of the most recent entries for agentID and
// topic, newest first, joined by newlines.
func (p *RedisProvider) Fetch(ctx context.Context, agentID, topic string, limit int) (string, error) {
	if limit <= 0 {
		limit = 5
	}
	key := memoryKey(agentID, topic)

	values, err := p.client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("memory: fetch: %w", err)
	}
	return strings.Join(values, "\n"), nil
}

// Close releases the underlying connection pool.
func (p *RedisProvider) Close() error {
	return p.client.Close()
}
