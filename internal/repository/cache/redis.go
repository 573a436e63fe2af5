package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pagelens/internal/domain"
)

const redisKeyPrefix = "fetch:" // fetch:<normalized url>

// RedisCache is a Redis-backed cache for deployments where multiple pipeline
// instances should share fetch results
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisClient creates a Redis client from a Redis URL and verifies the
// connection
func NewRedisClient(redisURL string, logger *slog.Logger) (*redis.Client, error) {
	parsedURL, err := url.Parse(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	addr := parsedURL.Host
	if addr == "" {
		addr = "localhost:6379"
	}

	password := ""
	if parsedURL.User != nil {
		password, _ = parsedURL.User.Password()
	}

	db := 0
	if parsedURL.Path != "" && len(parsedURL.Path) > 1 {
		if dbNum, err := strconv.Atoi(parsedURL.Path[1:]); err == nil {
			db = dbNum
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		"addr", addr,
		"db", db,
	)

	return client, nil
}

// NewRedisCache creates a Redis-backed cache repository
func NewRedisCache(client *redis.Client, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger,
	}
}

// Get fetches and decodes the cached extraction. Redis errors and decode
// failures are logged and reported as misses; a broken cache must never
// break a fetch.
func (c *RedisCache) Get(ctx context.Context, key string) (*domain.RawExtraction, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var value domain.RawExtraction
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn("Cache entry corrupt, invalidating", "key", key, "error", err)
		c.client.Del(ctx, redisKeyPrefix+key)
		return nil, false
	}

	return &value, true
}

// Set encodes and stores the extraction with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value *domain.RawExtraction, ttl time.Duration) {
	if ttl <= 0 || value == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to marshal cache entry", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

// Invalidate removes key from the cache
func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		c.logger.Warn("Cache invalidation failed", "key", key, "error", err)
	}
}

// HealthCheck performs a health check on the Redis connection
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
