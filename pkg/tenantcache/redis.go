package tenantcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultScanBatchSize bounds SCAN round-trips without blocking Redis.
const defaultScanBatchSize = 1000

// RedisCache is a Redis-backed Cache. Prefix deletion uses a SCAN cursor, so
// a tenant-scoped Clear never degenerates into FLUSHDB: one tenant flushing
// its namespace leaves every other tenant's entries untouched.
type RedisCache struct {
	db            redis.UniversalClient
	scanBatchSize int64
}

// NewRedis wraps an existing Redis client.
func NewRedis(client redis.UniversalClient) *RedisCache {
	return &RedisCache{
		db:            client,
		scanBatchSize: defaultScanBatchSize,
	}
}

// NewRedisWithBatchSize wraps a Redis client with a custom SCAN batch size.
func NewRedisWithBatchSize(client redis.UniversalClient, batchSize int) *RedisCache {
	if batchSize <= 0 {
		batchSize = defaultScanBatchSize
	}
	return &RedisCache{
		db:            client,
		scanBatchSize: int64(batchSize),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	return val, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.db.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.db.Del(ctx, key).Err()
}

// DeletePrefix removes every key under prefix using SCAN batches.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := prefix + "*"
	var cursor uint64

	for {
		batch, next, err := c.db.Scan(ctx, cursor, pattern, c.scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := c.db.Del(ctx, batch...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *RedisCache) Close() error {
	return c.db.Close()
}
