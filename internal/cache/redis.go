package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend implements Backend on a shared Redis instance.
// Every catalog node talks to the same Redis, so keys written by one
// process are visible to, and invalidated for, all of them.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds connection settings for NewRedisBackend
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string // empty keeps keys identical to the catalog key scheme
}

// NewRedisClient builds the process-wide Redis client shared by the cache,
// the rate limiter and the event publisher.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisBackend wraps an existing client
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisBackend) key(k string) string {
	return c.prefix + k
}

func (c *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *RedisBackend) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *RedisBackend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisBackend) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close is a no-op: the client is shared and closed by its owner.
func (c *RedisBackend) Close() error {
	return nil
}
