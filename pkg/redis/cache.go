package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed caching utilities.
// A disabled Redis degrades to a pass-through cache, never an error.
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// GetOrSet retrieves from cache or calls fn to populate it. The bool
// reports whether the value was served from cache.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) (bool, error) {
	// Try cache first
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return false, err
	}
	if found {
		return true, nil
	}

	// Cache miss - call function
	value, err := fn()
	if err != nil {
		return false, err
	}

	// Store in cache; a failed write is not fatal
	_ = c.Set(ctx, key, value, ttl)

	// Unmarshal into dest
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache roundtrip marshal failed: %w", err)
	}
	return false, json.Unmarshal(data, dest)
}

// Predefined TTLs, mirroring upstream data freshness
const (
	TTLMarkets  = 1 * time.Minute  // market snapshot list
	TTLDetail   = 5 * time.Minute  // per-asset detail metadata
	TTLOHLC     = 5 * time.Minute  // OHLC bars
	TTLChart    = 5 * time.Minute  // market chart series
	TTLTrending = 5 * time.Minute  // trending list
	TTLGlobal   = 2 * time.Minute  // global market stats
	TTLScan     = 2 * time.Minute  // assembled scan responses
	TTLAnalysis = 3 * time.Minute  // detailed single-asset analysis
)

// Common cache key generators

func MarketsKey(page, perPage int, sparkline bool) string {
	return fmt.Sprintf("markets:%d:%d:%t", page, perPage, sparkline)
}

func DetailKey(id string) string {
	return fmt.Sprintf("detail:%s", id)
}

func OHLCKey(id string, days int) string {
	return fmt.Sprintf("ohlc:%s:%d", id, days)
}

func ChartKey(id string, days int) string {
	return fmt.Sprintf("chart:%s:%d", id, days)
}

func AnalysisKey(id string) string {
	return fmt.Sprintf("analysis:%s", id)
}
