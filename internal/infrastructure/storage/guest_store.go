package storage

import (
	"context"
	"fmt"
	"hash/fnv"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

const lockStripes = 64

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// StorageFunc returns the durable storage of one guest session.
type StorageFunc func(sessionID string) cart.LocalStorage

// GuestStoreFactory opens guest carts. Stores of the same session share a
// lock so that concurrent requests of one session are serialized.
type GuestStoreFactory struct {
	storage StorageFunc
	locks   [lockStripes]sync.Mutex
	logger  *zap.Logger
}

// NewGuestStoreFactory creates a factory over storage.
func NewGuestStoreFactory(storage StorageFunc, logger *zap.Logger) *GuestStoreFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuestStoreFactory{storage: storage, logger: logger}
}

// NewGuestStoreFactoryFromConfig picks the storage named by
// cfg.GuestStorage. client is required for the redis storage.
func NewGuestStoreFactoryFromConfig(cfg config.CartConfig, client redis.UniversalClient, logger *zap.Logger) (*GuestStoreFactory, error) {
	var fn StorageFunc
	switch cfg.GuestStorage {
	case "", "memory":
		fn = NewMemoryRegistry().Storage
	case "file":
		dir := cfg.GuestDir
		fn = func(sessionID string) cart.LocalStorage {
			return NewFileStorage(filepath.Join(dir, sessionID+".json"))
		}
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis guest storage requires a redis client")
		}
		ttl := cfg.GuestTTL
		fn = func(sessionID string) cart.LocalStorage {
			return NewRedisStorage(client, sessionID, ttl)
		}
	default:
		return nil, fmt.Errorf("unknown guest storage %q", cfg.GuestStorage)
	}
	return NewGuestStoreFactory(fn, logger), nil
}

func (f *GuestStoreFactory) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &f.locks[h.Sum32()%lockStripes]
}

// Open returns the cart of sessionID. It matches appcart.LocalStoreFactory.
func (f *GuestStoreFactory) Open(_ context.Context, sessionID string) (cart.Store, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid cart session")
	}
	return cart.NewLocalStore(
		f.storage(sessionID),
		cart.WithLocker(f.lockFor(sessionID)),
		cart.WithLocalLogger(f.logger.With(zap.String("session_id", sessionID))),
	), nil
}

// MemoryRegistry hands out one cart.MemoryStorage per session for the
// lifetime of the process.
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]*cart.MemoryStorage
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]*cart.MemoryStorage)}
}

// Storage returns the storage of sessionID, creating it on first use.
func (r *MemoryRegistry) Storage(sessionID string) cart.LocalStorage {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = cart.NewMemoryStorage()
		r.sessions[sessionID] = s
	}
	return s
}

// Len reports how many sessions have a storage.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
