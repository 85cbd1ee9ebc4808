package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
)

type validatorFunc func(ctx context.Context, token string) (*auth.Claims, error)

func (f validatorFunc) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	return f(ctx, token)
}

func fixedValidator(claims *auth.Claims, err error) TokenValidator {
	return validatorFunc(func(context.Context, string) (*auth.Claims, error) {
		return claims, err
	})
}

func authRouter(v TokenValidator, owner *int64) *gin.Engine {
	r := gin.New()
	r.Use(OptionalAuth(v, nil))
	r.GET("/cart", func(c *gin.Context) {
		if id, ok := cart.OwnerFromContext(c.Request.Context()); ok {
			*owner = id
		}
		c.Status(http.StatusOK)
	})
	r.GET("/profile", RequireAuth(), func(c *gin.Context) {
		id, _ := GetJWTUserID(c)
		*owner = id
		c.Status(http.StatusOK)
	})
	return r
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		validator  TokenValidator
		wantStatus int
		wantOwner  int64
		wantCode   string
	}{
		{
			name:       "anonymous request passes",
			validator:  fixedValidator(nil, errors.New("must not be called")),
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid token sets owner",
			header:     "Bearer good",
			validator:  fixedValidator(&auth.Claims{UserID: 42, Username: "ada"}, nil),
			wantStatus: http.StatusOK,
			wantOwner:  42,
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			validator:  fixedValidator(nil, nil),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "ERR_TOKEN_INVALID",
		},
		{
			name:       "expired token",
			header:     "Bearer old",
			validator:  fixedValidator(nil, auth.ErrExpiredToken),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "ERR_TOKEN_EXPIRED",
		},
		{
			name:       "revoked token",
			header:     "Bearer gone",
			validator:  fixedValidator(nil, auth.ErrTokenBlacklisted),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "ERR_TOKEN_REVOKED",
		},
		{
			name:       "blacklist unavailable",
			header:     "Bearer good",
			validator:  fixedValidator(nil, errors.New("redis down")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "ERR_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var owner int64
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			authRouter(tt.validator, &owner).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOwner, owner)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	var owner int64
	r := authRouter(fixedValidator(&auth.Claims{UserID: 7}, nil), &owner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(AuthHeaderKey, "Bearer ok")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), owner)
}
