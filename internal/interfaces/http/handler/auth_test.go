package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopcraft/storefront/internal/application/identity"
	"github.com/shopcraft/storefront/internal/infrastructure/auth"
	"github.com/shopcraft/storefront/internal/infrastructure/config"
	"github.com/shopcraft/storefront/internal/interfaces/http/dto"
	"github.com/shopcraft/storefront/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		Issuer:                 "storefront-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		MaxRefreshCount:        3,
	})
	svc := identity.NewAuthService(newMemoryUsers(), jwtService, auth.NewInMemoryTokenBlacklist(), nil)
	h := NewAuthHandler(svc)

	r := gin.New()
	r.Use(middleware.RequestID(nil))
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.RefreshToken)

	protected := g.Group("", middleware.OptionalAuth(svc, nil), middleware.RequireAuth())
	protected.POST("/logout", h.Logout)
	protected.GET("/profile", h.Profile)
	return r
}

func bearer(token string) map[string]string {
	return map[string]string{middleware.AuthHeaderKey: "Bearer " + token}
}

func TestAuthHandler_Flow(t *testing.T) {
	r := newAuthRouter()
	creds := map[string]any{"username": "shopper", "password": "secret123"}

	w, resp := doJSON(t, r, http.MethodPost, "/auth/register", creds, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decodeData[identity.AuthResult](t, resp)
	assert.Equal(t, "shopper", registered.User.Username)
	assert.NotEmpty(t, registered.AccessToken)

	w, resp = doJSON(t, r, http.MethodPost, "/auth/register", creds, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)

	w, resp = doJSON(t, r, http.MethodPost, "/auth/login", creds, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decodeData[identity.AuthResult](t, resp)

	w, resp = doJSON(t, r, http.MethodGet, "/auth/profile", nil, bearer(session.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, registered.User.ID, decodeData[identity.UserInfo](t, resp).ID)

	w, resp = doJSON(t, r, http.MethodPost, "/auth/refresh", map[string]any{"refreshToken": session.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeData[identity.AuthResult](t, resp).AccessToken)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/logout", nil, bearer(session.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/auth/profile", nil, bearer(session.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, resp.Error.Code)
}

func TestAuthHandler_Errors(t *testing.T) {
	r := newAuthRouter()

	w, resp := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{"username": "ghost", "password": "whatever1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)

	w, resp = doJSON(t, r, http.MethodPost, "/auth/register", map[string]any{"username": "ab", "password": "secret123"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/refresh", map[string]any{"refreshToken": "garbage"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/auth/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
}
