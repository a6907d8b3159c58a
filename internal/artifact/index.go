package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/snonux/ankidict/internal/word"
)

// Index remembers the artifact set generated for a record key.
type Index interface {
	Get(ctx context.Context, key string) (word.Artifacts, bool, error)
	Put(ctx context.Context, key string, set word.Artifacts) error
}

// MemoryIndex keeps sets for the lifetime of the process.
type MemoryIndex struct {
	mu   sync.RWMutex
	sets map[string]word.Artifacts
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{sets: make(map[string]word.Artifacts)}
}

// Get returns the set remembered for key.
func (m *MemoryIndex) Get(_ context.Context, key string) (word.Artifacts, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.sets[key]
	if !ok {
		return nil, false, nil
	}
	return append(word.Artifacts(nil), set...), true, nil
}

// Put remembers set for key.
func (m *MemoryIndex) Put(_ context.Context, key string, set word.Artifacts) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[key] = append(word.Artifacts{}, set...)
	return nil
}

// RedisIndex shares remembered sets between processes, so the CLI and the
// HTTP server reuse each other's audio.
type RedisIndex struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// DefaultIndexTTL is how long a remembered set survives in Redis.
const DefaultIndexTTL = 7 * 24 * time.Hour

// NewRedisIndex connects to the Redis server at url (redis://host:port/db).
func NewRedisIndex(ctx context.Context, url string) (*RedisIndex, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisIndexWithClient(client), nil
}

// NewRedisIndexWithClient wraps an existing client.
func NewRedisIndexWithClient(client *redis.Client) *RedisIndex {
	return &RedisIndex{client: client, prefix: "ankidict:artifacts:", ttl: DefaultIndexTTL}
}

// Get implements Index.
func (r *RedisIndex) Get(ctx context.Context, key string) (word.Artifacts, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var set word.Artifacts
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, false, fmt.Errorf("corrupt artifact set for %s: %w", key, err)
	}
	return set, true, nil
}

// Put implements Index.
func (r *RedisIndex) Put(ctx context.Context, key string, set word.Artifacts) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisIndex) Close() error {
	return r.client.Close()
}
