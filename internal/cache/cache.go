// Package cache provides an optional Redis read-through cache for search and
// filter-catalog responses. Cache failures degrade to the engine; they never
// fail a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

// ErrMiss is returned when the requested key is not cached.
var ErrMiss = errors.New("cache miss")

// filtersKey is the fixed key for the unconstrained facet catalog.
const filtersKey = "filters"

// Config holds Redis connection settings for the response cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ResponseCache caches normalized search responses and the filter catalog in
// Redis with a short TTL.
type ResponseCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a response cache and verifies the Redis connection.
func New(ctx context.Context, cfg Config, prefix string) (*ResponseCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}

	return &ResponseCache{
		client: client,
		prefix: prefix,
		ttl:    cfg.TTL,
	}, nil
}

// SearchKey derives a stable cache key from the full search request,
// including filters, sort, and pagination.
func (c *ResponseCache) SearchKey(req *domain.SearchRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		// SearchRequest holds only plain fields, so this should not happen.
		return c.prefix + ":search:invalid"
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf("%s:search:%x", c.prefix, h.Sum64())
}

// GetSearch returns a cached search response, or ErrMiss.
func (c *ResponseCache) GetSearch(ctx context.Context, key string) (*domain.SearchResponse, error) {
	var resp domain.SearchResponse
	if err := c.get(ctx, key, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetSearch caches a search response under the given key.
func (c *ResponseCache) SetSearch(ctx context.Context, key string, resp *domain.SearchResponse) error {
	return c.set(ctx, key, resp)
}

// GetFilters returns the cached filter catalog, or ErrMiss.
func (c *ResponseCache) GetFilters(ctx context.Context) (*domain.AvailableFilters, error) {
	var filters domain.AvailableFilters
	if err := c.get(ctx, c.prefix+":"+filtersKey, &filters); err != nil {
		return nil, err
	}
	return &filters, nil
}

// SetFilters caches the filter catalog.
func (c *ResponseCache) SetFilters(ctx context.Context, filters *domain.AvailableFilters) error {
	return c.set(ctx, c.prefix+":"+filtersKey, filters)
}

// Invalidate drops all cached responses under this cache's prefix. Called
// after seeding, when every cached response is stale.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: scan keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: delete keys: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *ResponseCache) Close() error {
	return c.client.Close()
}

func (c *ResponseCache) get(ctx context.Context, key string, target any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("cache: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("cache: unmarshal %s: %w", key, err)
	}
	return nil
}

func (c *ResponseCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}
