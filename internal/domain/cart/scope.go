package cart

import (
	"context"
	"strconv"
)

// Scope identifies one disjoint partition of cart lines: either a guest
// session or an authenticated owner. The two never share lines.
type Scope struct {
	OwnerID   *int64
	SessionID string
}

// OwnerScope returns the scope of an authenticated owner.
func OwnerScope(ownerID int64) Scope {
	return Scope{OwnerID: &ownerID}
}

// GuestScope returns the scope of an anonymous session.
func GuestScope(sessionID string) Scope {
	return Scope{SessionID: sessionID}
}

// Anonymous reports whether the scope has no owner.
func (s Scope) Anonymous() bool {
	return s.OwnerID == nil
}

// Key is a stable string usable as a cache or storage key.
func (s Scope) Key() string {
	if s.OwnerID != nil {
		return "owner:" + strconv.FormatInt(*s.OwnerID, 10)
	}
	return "guest:" + s.SessionID
}

// String implements fmt.Stringer.
func (s Scope) String() string {
	return s.Key()
}

type contextKey string

const (
	ownerKey   contextKey = "cart_owner_id"
	sessionKey contextKey = "cart_session_id"
)

// ContextWithOwner attaches an authenticated owner id to ctx.
func ContextWithOwner(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

// OwnerFromContext returns the owner id attached by ContextWithOwner.
func OwnerFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ownerKey).(int64)
	return id, ok
}

// ContextWithSession attaches a guest session id to ctx.
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// SessionFromContext returns the guest session id attached by ContextWithSession.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}
