package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopcraft/storefront/internal/domain/cart"
)

// CartCache holds the last listed lines of an owner's cart, keyed by a
// per-owner generation. Invalidate moves the owner to a new generation, so
// an entry listed before a mutation can never be stored under the
// generation that follows it.
type CartCache interface {
	// Generation returns the owner's current generation.
	Generation(ctx context.Context, ownerID int64) (int64, error)
	// Get returns the lines cached for gen and whether an entry existed.
	Get(ctx context.Context, ownerID, gen int64) ([]cart.Line, bool, error)
	// Set stores lines listed under gen. It does nothing once gen is stale.
	Set(ctx context.Context, ownerID, gen int64, lines []cart.Line) error
	Invalidate(ctx context.Context, ownerID int64) error
}

// setIfCurrent writes the entry only while the owner is still at the
// generation the lines were listed under.
var setIfCurrent = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisCartCache implements CartCache with one JSON value per owner and
// generation, plus a counter key per owner.
type RedisCartCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	genTTL    time.Duration
}

// NewRedisCartCache creates a cache over an existing client.
func NewRedisCartCache(client redis.UniversalClient, ttl time.Duration) *RedisCartCache {
	genTTL := 4 * ttl
	if genTTL < 24*time.Hour {
		genTTL = 24 * time.Hour
	}
	return &RedisCartCache{
		client:    client,
		keyPrefix: "shop:cart:owner:",
		ttl:       ttl,
		genTTL:    genTTL,
	}
}

func (c *RedisCartCache) genKey(ownerID int64) string {
	return c.keyPrefix + strconv.FormatInt(ownerID, 10) + ":gen"
}

func (c *RedisCartCache) entryKey(ownerID, gen int64) string {
	return c.keyPrefix + strconv.FormatInt(ownerID, 10) + ":g" + strconv.FormatInt(gen, 10)
}

// Generation implements CartCache. An owner without a counter is at 0.
func (c *RedisCartCache) Generation(ctx context.Context, ownerID int64) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cart cache generation: %w", err)
	}
	return gen, nil
}

// Get implements CartCache.
func (c *RedisCartCache) Get(ctx context.Context, ownerID, gen int64) ([]cart.Line, bool, error) {
	raw, err := c.client.Get(ctx, c.entryKey(ownerID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cart cache: %w", err)
	}
	var lines []cart.Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, false, fmt.Errorf("failed to decode cart cache: %w", err)
	}
	return lines, true, nil
}

// Set implements CartCache.
func (c *RedisCartCache) Set(ctx context.Context, ownerID, gen int64, lines []cart.Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart cache: %w", err)
	}
	keys := []string{c.genKey(ownerID), c.entryKey(ownerID, gen)}
	if err := setIfCurrent.Run(ctx, c.client, keys, gen, raw, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to write cart cache: %w", err)
	}
	return nil
}

// Invalidate implements CartCache. Entries of earlier generations are left
// to expire.
func (c *RedisCartCache) Invalidate(ctx context.Context, ownerID int64) error {
	key := c.genKey(ownerID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, c.genTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cart cache: %w", err)
	}
	return nil
}

var _ CartCache = (*RedisCartCache)(nil)

type cacheEntry struct {
	gen       int64
	lines     []cart.Line
	expiresAt time.Time
}

// InMemoryCartCache is a single-instance CartCache.
type InMemoryCartCache struct {
	mu      sync.RWMutex
	gens    map[int64]int64
	entries map[int64]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryCartCache creates an in-process cache.
func NewInMemoryCartCache(ttl time.Duration) *InMemoryCartCache {
	return &InMemoryCartCache{
		gens:    make(map[int64]int64),
		entries: make(map[int64]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Generation implements CartCache.
func (c *InMemoryCartCache) Generation(_ context.Context, ownerID int64) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[ownerID], nil
}

// Get implements CartCache. Expired entries read as missing.
func (c *InMemoryCartCache) Get(_ context.Context, ownerID, gen int64) ([]cart.Line, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[ownerID]
	c.mu.RUnlock()
	if !ok || entry.gen != gen || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return cloneLines(entry.lines), true, nil
}

// Set implements CartCache.
func (c *InMemoryCartCache) Set(_ context.Context, ownerID, gen int64, lines []cart.Line) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[ownerID] != gen {
		return nil
	}
	c.entries[ownerID] = cacheEntry{gen: gen, lines: cloneLines(lines), expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate implements CartCache.
func (c *InMemoryCartCache) Invalidate(_ context.Context, ownerID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[ownerID]++
	delete(c.entries, ownerID)
	return nil
}

var _ CartCache = (*InMemoryCartCache)(nil)

func cloneLines(lines []cart.Line) []cart.Line {
	out := make([]cart.Line, len(lines))
	for i := range lines {
		out[i] = lines[i].Clone()
	}
	return out
}
