package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pocketclass/utils"

	"github.com/go-redis/redis/v8"
)

// IdentityCache keeps the reconciled roster of an instructor between requests.
type IdentityCache interface {
	Get(ctx context.Context, instructorID string) ([]Identity, bool, error)
	Set(ctx context.Context, instructorID string, list []Identity) error
	Invalidate(ctx context.Context, instructorID string) error
}

// RedisIdentityCache stores rosters as JSON under utils.ClientCachePrefix.
type RedisIdentityCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisIdentityCache(client *redis.Client, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{Client: client, TTL: ttl}
}

func cacheKey(instructorID string) string {
	return utils.ClientCachePrefix + instructorID
}

func (c *RedisIdentityCache) Get(ctx context.Context, instructorID string) ([]Identity, bool, error) {
	data, err := c.Client.Get(ctx, cacheKey(instructorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read client cache: %w", err)
	}

	var list []Identity
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("failed to decode client cache: %w", err)
	}
	return list, true, nil
}

func (c *RedisIdentityCache) Set(ctx context.Context, instructorID string, list []Identity) error {
	if c.TTL <= 0 {
		return nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode client cache: %w", err)
	}
	return c.Client.Set(ctx, cacheKey(instructorID), data, c.TTL).Err()
}

func (c *RedisIdentityCache) Invalidate(ctx context.Context, instructorID string) error {
	return c.Client.Del(ctx, cacheKey(instructorID)).Err()
}
