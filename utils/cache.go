package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"pocketclass/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient holds cached client rosters.
	CacheClient *redis.Client
	// AuthCacheClient holds verified token hashes.
	AuthCacheClient *redis.Client
)

// newRedisClient connects to one logical database of the configured Redis server.
func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis db %d at %s: %w", db, config.AppConfig.RedisAddr, err)
	}
	return client, nil
}

// InitCache connects the roster cache (REDIS_CACHE_DB).
func InitCache() {
	client, err := newRedisClient(config.AppConfig.RedisCacheDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
	CacheClient = client
}

// GetCacheClient returns the roster cache client, connecting on first use.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache connects the auth cache (REDIS_AUTH_DB).
func InitAuthCache() {
	client, err := newRedisClient(config.AppConfig.RedisAuthDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
	AuthCacheClient = client
}

// GetAuthCacheClient returns the auth cache client, connecting on first use.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}
