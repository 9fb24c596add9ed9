package recommendation

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

const defaultTTL = 5 * time.Minute

// Cache stores ranked recommendations per user and preference snapshot.
// Get reports a miss as (nil, nil).
type Cache interface {
	Get(ctx context.Context, userID int, prefs user.Preferences) ([]Scored, error)
	Set(ctx context.Context, userID int, prefs user.Preferences, recs []Scored) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// buildKey folds the preferences into the key so a profile edit starts a
// fresh entry instead of serving stale rankings.
func buildKey(userID int, prefs user.Preferences) (string, error) {
	b, err := json.Marshal(prefs)
	if err != nil {
		return "", fmt.Errorf("marshal preferences: %w", err)
	}
	return fmt.Sprintf("rec:user:%d:%016x", userID, xxhash.Sum64(b)), nil
}

func (c *RedisCache) Get(ctx context.Context, userID int, prefs user.Preferences) ([]Scored, error) {
	key, err := buildKey(userID, prefs)
	if err != nil {
		return nil, err
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var recs []Scored
	if err := json.Unmarshal(val, &recs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}
	return recs, nil
}

func (c *RedisCache) Set(ctx context.Context, userID int, prefs user.Preferences, recs []Scored) error {
	key, err := buildKey(userID, prefs)
	if err != nil {
		return err
	}
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
