package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopcraft/storefront/internal/domain/cart"
)

const guestKeyPrefix = "shop:cart:guest:"

// RedisStorage keeps one guest session's cart under a single key. Every write
// refreshes the key's TTL, so only carts left untouched for ttl expire.
type RedisStorage struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisStorage creates the storage of sessionID.
func NewRedisStorage(client redis.UniversalClient, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    guestKeyPrefix + sessionID,
		ttl:    ttl,
	}
}

// Read implements cart.LocalStorage.
func (r *RedisStorage) Read(ctx context.Context) ([]cart.Line, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []cart.Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var lines []cart.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode guest cart: %w", err)
	}
	return lines, nil
}

// Write implements cart.LocalStorage. An empty cart deletes the key.
func (r *RedisStorage) Write(ctx context.Context, lines []cart.Line) error {
	if len(lines) == 0 {
		if err := r.client.Del(ctx, r.key).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", r.key, err)
		}
		return nil
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

var _ cart.LocalStorage = (*RedisStorage)(nil)
