// Package rediscache implements the Feed Engine's cache port on top of
// go-redis, following the connection-pooling idiom of the pack's Redis
// wrapper (tracing/metrics instrumentation omitted — see DESIGN.md).
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// Cache wraps a pooled redis.Client and implements domain.FeedCache.
type Cache struct {
	client *redis.Client
}

// New creates a Cache against addr, pinging it once to fail fast on
// misconfiguration.
func New(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().Str("addr", addr).Msg("rediscache connected")
	return &Cache{client: client}, nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// GetFeed returns the cached post list for key, or ok=false on a miss
// or a corrupt cache entry (§4.4 "cache corruption falls through to a
// live recompute, never errors the request").
func (c *Cache) GetFeed(ctx context.Context, key string) ([]domain.FeedPost, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var posts []domain.FeedPost
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("rediscache: corrupt feed entry, treating as miss")
		return nil, false
	}
	return posts, true
}

// SetFeed writes the post list to key with the given TTL.
func (c *Cache) SetFeed(ctx context.Context, key string, posts []domain.FeedPost, ttl time.Duration) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// DeleteFeed evicts a cached feed, used for write-path invalidation (§4.5).
func (c *Cache) DeleteFeed(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete feed %s: %w", key, err)
	}
	return nil
}

// GetScore returns the cached relevance score for a post, or ok=false
// on a miss or an unparseable value (§4.3 "Score cache corruption").
func (c *Cache) GetScore(ctx context.Context, postID string) (float64, bool) {
	raw, err := c.client.Get(ctx, domain.ScoreKey(postID)).Result()
	if err != nil {
		return 0, false
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn().Str("post_id", postID).Err(err).Msg("rediscache: corrupt score entry, treating as miss")
		return 0, false
	}
	return score, true
}

// SetScore writes a post's relevance score with the given TTL.
func (c *Cache) SetScore(ctx context.Context, postID string, score float64, ttl time.Duration) error {
	return c.client.Set(ctx, domain.ScoreKey(postID), strconv.FormatFloat(score, 'f', -1, 64), ttl).Err()
}

// DeleteScore evicts a cached score, used when a post's engagement
// counters change (§4.5).
func (c *Cache) DeleteScore(ctx context.Context, postID string) error {
	key := domain.ScoreKey(postID)
	if err := c.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete score %s: %w", key, err)
	}
	return nil
}

var _ domain.FeedCache = (*Cache)(nil)
