package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrKeyExists   = errors.New("idempotency key already exists")
	ErrKeyNotFound = errors.New("idempotency key not found")
)

// CheckAndSetIdempotency atomically claims an idempotency key.
// Returns (nil, nil) when the key is newly claimed, the cached response when
// the operation already completed, or ErrKeyExists while it is in flight.
func (c *Client) CheckAndSetIdempotency(ctx context.Context, key string, ttl time.Duration) ([]byte, error) {
	prefixedKey := c.prefixKey("idempotency:" + key)

	set, err := c.rdb.SetNX(ctx, prefixedKey, "pending", ttl).Result()
	if err != nil {
		return nil, err
	}
	if set {
		return nil, nil
	}

	val, err := c.rdb.Get(ctx, prefixedKey).Result()
	if err != nil {
		return nil, err
	}
	if val == "pending" {
		return nil, ErrKeyExists
	}

	return []byte(val), nil
}

// GetIdempotencyKey retrieves an existing idempotency key's value.
func (c *Client) GetIdempotencyKey(ctx context.Context, key string) (string, error) {
	prefixedKey := c.prefixKey("idempotency:" + key)

	val, err := c.rdb.Get(ctx, prefixedKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

// SetIdempotencyKey claims a key without caching a response.
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, ttl time.Duration) error {
	prefixedKey := c.prefixKey("idempotency:" + key)

	set, err := c.rdb.SetNX(ctx, prefixedKey, "pending", ttl).Result()
	if err != nil {
		return err
	}
	if !set {
		return ErrKeyExists
	}
	return nil
}

// MarkIdempotencyComplete stores the response so replays return the same body.
func (c *Client) MarkIdempotencyComplete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.prefixKey("idempotency:"+key), response, ttl).Err()
}

// MarkIdempotencyFailed releases the key so the caller may retry.
func (c *Client) MarkIdempotencyFailed(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.prefixKey("idempotency:"+key)).Err()
}
