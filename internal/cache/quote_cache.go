package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"brokersim/internal/domain"
)

// QuoteCache stores recently fetched quotes for a bounded time so portfolio
// pages do not hammer the external provider. A cache miss returns (nil, nil).
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (*domain.Quote, error)
	Set(ctx context.Context, quote *domain.Quote) error
}

// RedisQuoteCache caches quotes in Redis
type RedisQuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisQuoteCache creates a new RedisQuoteCache
func NewRedisQuoteCache(client *redis.Client, ttl time.Duration) *RedisQuoteCache {
	return &RedisQuoteCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisQuoteCache) key(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}

// Get retrieves a cached quote, or (nil, nil) on a miss
func (c *RedisQuoteCache) Get(ctx context.Context, symbol string) (*domain.Quote, error) {
	data, err := c.client.Get(ctx, c.key(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, err
	}

	return &quote, nil
}

// Set stores a quote with the configured TTL
func (c *RedisQuoteCache) Set(ctx context.Context, quote *domain.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(quote.Symbol), data, c.ttl).Err()
}

// MemoryQuoteCache caches quotes in process memory. Used when no Redis URL is
// configured; entries expire lazily on read.
type MemoryQuoteCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	quote     domain.Quote
	expiresAt time.Time
}

// NewMemoryQuoteCache creates a new MemoryQuoteCache
func NewMemoryQuoteCache(ttl time.Duration) *MemoryQuoteCache {
	return &MemoryQuoteCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get retrieves a cached quote, or (nil, nil) on a miss or expired entry
func (c *MemoryQuoteCache) Get(_ context.Context, symbol string) (*domain.Quote, error) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	quote := entry.quote
	return &quote, nil
}

// Set stores a quote with the configured TTL
func (c *MemoryQuoteCache) Set(_ context.Context, quote *domain.Quote) error {
	c.mu.Lock()
	c.entries[quote.Symbol] = memoryEntry{
		quote:     *quote,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
	return nil
}
