package cache

import (
	"context"

	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// CachingStore puts a CartCache in front of an owner's persisted cart.
// ListLines is served from the cache when possible. Every mutation moves the
// owner to a new cache generation before it touches the cart and again once
// it returns, so a listing that raced the mutation is never cached as
// current. A mutation whose first invalidation fails is refused with
// ErrBackingStoreUnavailable; other cache failures are logged and ignored.
type CachingStore struct {
	next    cart.Store
	cache   CartCache
	ownerID int64
	logger  *zap.Logger
}

// NewCachingStore decorates next for ownerID.
func NewCachingStore(next cart.Store, c CartCache, ownerID int64, logger *zap.Logger) *CachingStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingStore{next: next, cache: c, ownerID: ownerID, logger: logger}
}

// beforeMutation retires the current generation.
func (s *CachingStore) beforeMutation(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, s.ownerID); err != nil {
		s.logger.Warn("cart cache invalidation failed, refusing mutation", zap.Int64("owner_id", s.ownerID), zap.Error(err))
		return shared.ErrBackingStoreUnavailable.Wrap(err)
	}
	return nil
}

// afterMutation retires any generation a concurrent listing picked up while
// the mutation ran.
func (s *CachingStore) afterMutation(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, s.ownerID); err != nil {
		s.logger.Warn("cart cache invalidation failed", zap.Int64("owner_id", s.ownerID), zap.Error(err))
	}
}

// AddLine implements cart.Store.
func (s *CachingStore) AddLine(ctx context.Context, product *catalog.Product, quantity int) (*cart.Line, error) {
	if err := s.beforeMutation(ctx); err != nil {
		return nil, err
	}
	defer s.afterMutation(ctx)
	return s.next.AddLine(ctx, product, quantity)
}

// SetQuantity implements cart.Store.
func (s *CachingStore) SetQuantity(ctx context.Context, lineID int64, quantity int) (*cart.Line, error) {
	if err := s.beforeMutation(ctx); err != nil {
		return nil, err
	}
	defer s.afterMutation(ctx)
	return s.next.SetQuantity(ctx, lineID, quantity)
}

// RemoveLine implements cart.Store.
func (s *CachingStore) RemoveLine(ctx context.Context, lineID int64) (bool, error) {
	if err := s.beforeMutation(ctx); err != nil {
		return false, err
	}
	defer s.afterMutation(ctx)
	return s.next.RemoveLine(ctx, lineID)
}

// Clear implements cart.Store.
func (s *CachingStore) Clear(ctx context.Context) error {
	if err := s.beforeMutation(ctx); err != nil {
		return err
	}
	defer s.afterMutation(ctx)
	return s.next.Clear(ctx)
}

// ListLines implements cart.Store. Without a readable generation the cache
// is bypassed.
func (s *CachingStore) ListLines(ctx context.Context) ([]cart.Line, error) {
	gen, err := s.cache.Generation(ctx, s.ownerID)
	if err != nil {
		s.logger.Warn("cart cache read failed", zap.Int64("owner_id", s.ownerID), zap.Error(err))
		return s.next.ListLines(ctx)
	}

	lines, ok, err := s.cache.Get(ctx, s.ownerID, gen)
	if err != nil {
		s.logger.Warn("cart cache read failed", zap.Int64("owner_id", s.ownerID), zap.Error(err))
	}
	if ok {
		return lines, nil
	}

	lines, err = s.next.ListLines(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, s.ownerID, gen, lines); err != nil {
		s.logger.Warn("cart cache write failed", zap.Int64("owner_id", s.ownerID), zap.Error(err))
	}
	return lines, nil
}

var _ cart.Store = (*CachingStore)(nil)
