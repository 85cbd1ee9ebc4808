package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopcraft/storefront/internal/domain/cart"
)

// CartSessionHeader carries the guest session id for clients without cookies.
const CartSessionHeader = "X-Cart-Session"

// GuestSessionConfig configures the guest session cookie.
type GuestSessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// GuestSession gives every anonymous request a cart session id. The id comes
// from the X-Cart-Session header, then the session cookie, and is generated
// when neither holds a UUID. Any accepted UUID spelling is reduced to the
// canonical lower case form. It is echoed in both so clients can keep it.
// Authenticated requests are left alone.
func GuestSession(cfg GuestSessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "cart_session"
	}
	maxAge := int(cfg.MaxAge / time.Second)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := cart.OwnerFromContext(ctx); ok {
			c.Next()
			return
		}

		sessionID := c.GetHeader(CartSessionHeader)
		if sessionID == "" {
			sessionID, _ = c.Cookie(cfg.CookieName)
		}
		if id, err := uuid.Parse(sessionID); err == nil {
			sessionID = id.String()
		} else {
			sessionID = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sessionID, maxAge, "/", "", cfg.Secure, true)
		c.Header(CartSessionHeader, sessionID)

		c.Request = c.Request.WithContext(cart.ContextWithSession(ctx, sessionID))
		c.Next()
	}
}
