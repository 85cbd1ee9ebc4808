package cart

import (
	"context"
	"errors"

	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// IdentityProvider reports who is asking. It returns an owner scope for an
// authenticated caller and a guest scope otherwise.
type IdentityProvider interface {
	Identify(ctx context.Context) (cart.Scope, error)
}

// IdentityFunc adapts a function to IdentityProvider.
type IdentityFunc func(ctx context.Context) (cart.Scope, error)

// Identify implements IdentityProvider.
func (f IdentityFunc) Identify(ctx context.Context) (cart.Scope, error) {
	return f(ctx)
}

// ContextIdentity reads the owner or guest session that request middleware
// attached to ctx. An owner wins over a session.
func ContextIdentity() IdentityProvider {
	return IdentityFunc(func(ctx context.Context) (cart.Scope, error) {
		if id, ok := cart.OwnerFromContext(ctx); ok {
			return cart.OwnerScope(id), nil
		}
		return cart.GuestScope(cart.SessionFromContext(ctx)), nil
	})
}

// LocalStoreFactory opens the anonymous cart of a guest session.
type LocalStoreFactory func(ctx context.Context, sessionID string) (cart.Store, error)

// RemoteStoreFactory opens the persisted cart of an owner.
type RemoteStoreFactory func(ctx context.Context, ownerID int64) (cart.Store, error)

// Selector routes each cart operation to exactly one backing store, chosen
// from the caller's identity at the time of the call. Nothing is cached
// between calls, so a login or logout takes effect on the next operation.
type Selector struct {
	identity IdentityProvider
	local    LocalStoreFactory
	remote   RemoteStoreFactory
	logger   *zap.Logger
}

// NewSelector creates a Selector.
func NewSelector(identity IdentityProvider, local LocalStoreFactory, remote RemoteStoreFactory, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		identity: identity,
		local:    local,
		remote:   remote,
		logger:   logger,
	}
}

// Resolve returns the active scope and its store. A remote store that cannot
// be opened is reported as shared.ErrBackingStoreUnavailable; the selector
// never substitutes the local cart for it.
func (s *Selector) Resolve(ctx context.Context) (cart.Scope, cart.Store, error) {
	scope, err := s.identity.Identify(ctx)
	if err != nil {
		return cart.Scope{}, nil, err
	}

	if !scope.Anonymous() {
		store, err := s.remote(ctx, *scope.OwnerID)
		if err != nil {
			s.logger.Warn("remote cart unavailable", zap.String("scope", scope.Key()), zap.Error(err))
			return scope, nil, asUnavailable(err)
		}
		return scope, store, nil
	}

	if scope.SessionID == "" {
		return scope, nil, shared.ErrInvalidInput.WithMessage("cart session is required")
	}
	store, err := s.local(ctx, scope.SessionID)
	if err != nil {
		return scope, nil, err
	}
	return scope, store, nil
}

func asUnavailable(err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.ErrBackingStoreUnavailable.Wrap(err)
}
