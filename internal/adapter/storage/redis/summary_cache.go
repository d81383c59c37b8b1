package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SummaryCache implements ports.SummaryCache using Redis. All entries
// share one prefix so a shift close can drop them in a single sweep.
type SummaryCache struct {
	client *goredis.Client
	prefix string
}

// NewSummaryCache creates a new Redis-backed daily summary cache.
func NewSummaryCache(client *goredis.Client) *SummaryCache {
	return &SummaryCache{
		client: client,
		prefix: "till:",
	}
}

// Get retrieves a cached summary payload by filter key.
// Returns nil, nil if the key does not exist.
func (c *SummaryCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis summary get: %w", err)
	}
	return val, nil
}

// Set stores a summary payload with TTL.
func (c *SummaryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis summary set: %w", err)
	}
	return nil
}

// Invalidate drops every cached summary. SCAN is used instead of KEYS
// so a large keyspace does not block the server.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"summary:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis summary del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis summary scan: %w", err)
	}
	return nil
}
