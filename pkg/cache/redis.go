package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by [RedisCache].
const DefaultRedisPrefix = "polaris:"

// RedisCache stores entries in Redis. Transient connection failures are
// retried with a short backoff.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	retry  RetryPolicy
}

// RedisOption configures a [RedisCache].
type RedisOption func(*RedisCache)

// WithRedisPrefix replaces [DefaultRedisPrefix].
func WithRedisPrefix(p string) RedisOption { return func(c *RedisCache) { c.prefix = p } }

// WithRedisRetry replaces the retry policy.
func WithRedisRetry(p RetryPolicy) RedisOption { return func(c *RedisCache) { c.retry = p } }

// NewRedisCache connects to the Redis server at url
// (redis://[user:pass@]host:port/db).
func NewRedisCache(url string, opts ...RedisOption) (*RedisCache, error) {
	o, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisCacheFromClient(redis.NewClient(o), opts...), nil
}

// NewRedisCacheFromClient wraps an existing client. Close closes it.
func NewRedisCacheFromClient(client redis.UniversalClient, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client: client,
		prefix: DefaultRedisPrefix,
		retry:  RetryPolicy{Attempts: 3, Delay: 50 * time.Millisecond},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.retry.Do(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		hit  bool
	)
	err := c.retry.Do(ctx, func() error {
		v, err := c.client.Get(ctx, c.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return classify(err)
		}
		data, hit = v, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry.Do(ctx, func() error {
		return classify(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry.Do(ctx, func() error {
		return classify(c.client.Del(ctx, c.prefix+key).Err())
	})
}

// Clear deletes every key under the cache's prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	n := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return n, classify(err)
		}
		n++
	}
	return n, classify(iter.Err())
}

// Close implements [Cache].
func (c *RedisCache) Close() error { return c.client.Close() }

// classify marks connection-level failures as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
		return Retryable(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
