// Package cache provides a Redis cache for the public feed's front page.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

const frontPageKey = "feed:front_page"

// FeedCache caches the first page of the unfiltered published feed with a
// short TTL. Any post mutation invalidates it.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache connects to Redis and verifies the connection.
func NewFeedCache(ctx context.Context, addr, password string, ttl time.Duration) (*FeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &FeedCache{client: client, ttl: ttl}, nil
}

// GetFrontPage returns the cached front page, or (nil, nil) on a miss.
func (c *FeedCache) GetFrontPage(ctx context.Context) (*domain.Page[domain.Post], error) {
	raw, err := c.client.Get(ctx, frontPageKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get front page: %w", err)
	}

	var page domain.Page[domain.Post]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("unmarshal front page: %w", err)
	}
	return &page, nil
}

// SetFrontPage stores the front page with the configured TTL.
func (c *FeedCache) SetFrontPage(ctx context.Context, page *domain.Page[domain.Post]) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal front page: %w", err)
	}
	if err := c.client.Set(ctx, frontPageKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set front page: %w", err)
	}
	return nil
}

// InvalidateFrontPage drops the cached front page.
func (c *FeedCache) InvalidateFrontPage(ctx context.Context) error {
	if err := c.client.Del(ctx, frontPageKey).Err(); err != nil {
		return fmt.Errorf("invalidate front page: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *FeedCache) Close() error {
	return c.client.Close()
}
