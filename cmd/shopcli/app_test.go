package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appcart "github.com/shopcraft/storefront/internal/application/cart"
	appcatalog "github.com/shopcraft/storefront/internal/application/catalog"
	"github.com/shopcraft/storefront/internal/application/identity"
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/infrastructure/auth"
	"github.com/shopcraft/storefront/internal/infrastructure/config"
	"github.com/shopcraft/storefront/internal/infrastructure/persistence"
	"github.com/shopcraft/storefront/internal/infrastructure/storage"
	"github.com/shopcraft/storefront/internal/interfaces/http/handler"
	"github.com/shopcraft/storefront/internal/interfaces/http/middleware"
	"github.com/shopcraft/storefront/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	db, err := persistence.NewDatabase(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	products := persistence.NewGormProductRepository(db.DB)
	require.NoError(t, persistence.SeedProducts(ctx, products, zap.NewNop()))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "shopcli-test-secret-that-is-long-enough",
		Issuer:                 "storefront-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		MaxRefreshCount:        3,
	})
	authService := identity.NewAuthService(persistence.NewGormUserRepository(db.DB), jwtService, auth.NewInMemoryTokenBlacklist(), nil)

	guests := storage.NewGuestStoreFactory(storage.NewMemoryRegistry().Storage, nil)
	selector := appcart.NewSelector(appcart.ContextIdentity(), guests.Open,
		func(_ context.Context, ownerID int64) (cart.Store, error) {
			return persistence.NewGormCartStore(db.DB, ownerID), nil
		}, nil)

	engine, err := router.New(router.Handlers{
		Products: handler.NewProductHandler(appcatalog.NewProductService(products)),
		Cart:     handler.NewCartHandler(appcart.NewService(selector, products)),
		Auth:     handler.NewAuthHandler(authService),
	}, router.Options{
		Validator:   authService,
		Security:    middleware.DefaultSecurityConfig(),
		MaxBodySize: 1 << 20,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	app     *app
	out     *bytes.Buffer
	dataDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := newServer(t)
	dataDir := t.TempDir()
	out := &bytes.Buffer{}
	a, err := newApp(cliConfig{Server: srv.URL, DataDir: dataDir, Timeout: 5 * time.Second}, out, zap.NewNop())
	require.NoError(t, err)
	return &harness{app: a, out: out, dataDir: dataDir}
}

func (h *harness) run(t *testing.T, args ...string) string {
	t.Helper()
	h.out.Reset()
	require.NoError(t, h.app.run(context.Background(), args))
	return h.out.String()
}

func TestApp_GuestCartIsLocalAndAccountCartIsRemote(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "products", "-category", "electronics")
	assert.Contains(t, out, "Premium Wireless Headphones")
	assert.NotContains(t, out, "Ergonomic Chair")

	out = h.run(t, "add", "-qty", "2", "1")
	assert.Contains(t, out, "Added Premium Wireless Headphones (line 1, quantity 2)")
	_, err := os.Stat(filepath.Join(h.dataDir, "cart.json"))
	require.NoError(t, err, "signed out carts live in the data dir")

	out = h.run(t, "cart")
	assert.Contains(t, out, "599.98")

	out = h.run(t, "register", "alice", "secret123")
	assert.Contains(t, out, "Signed in as alice")

	out = h.run(t, "cart")
	assert.Contains(t, out, "Your cart is empty", "the account cart does not include guest lines")

	out = h.run(t, "add", "4")
	assert.Contains(t, out, "Added Classic Watch")
	out = h.run(t, "cart")
	assert.Contains(t, out, "199.99")

	out = h.run(t, "whoami")
	assert.Contains(t, out, "alice")

	out = h.run(t, "logout")
	assert.Contains(t, out, "Logged out successfully")

	out = h.run(t, "cart")
	assert.Contains(t, out, "599.98")
	assert.NotContains(t, out, "Classic Watch")

	out = h.run(t, "login", "alice", "secret123")
	assert.Contains(t, out, "Signed in as alice")
	out = h.run(t, "cart")
	assert.Contains(t, out, "Classic Watch")
}

func TestApp_SetRemoveClear(t *testing.T) {
	h := newHarness(t)

	h.run(t, "add", "2")
	out := h.run(t, "set", "1", "3")
	assert.Contains(t, out, "Updated Latest Smartphone to quantity 3")

	out = h.run(t, "set", "1", "0")
	assert.Contains(t, out, "Item removed from cart")

	err := h.app.run(context.Background(), []string{"remove", "1"})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	h.run(t, "add", "3")
	out = h.run(t, "clear")
	assert.Contains(t, out, "Cart cleared")
	out = h.run(t, "cart")
	assert.Contains(t, out, "Your cart is empty")
}

func TestApp_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.app.run(ctx, nil), errUsage)
	assert.ErrorIs(t, h.app.run(ctx, []string{"dance"}), errUsage)
	assert.ErrorIs(t, h.app.run(ctx, []string{"set", "1"}), errUsage)
	assert.ErrorIs(t, h.app.run(ctx, []string{"add", "abc"}), shared.ErrInvalidInput)
	assert.ErrorIs(t, h.app.run(ctx, []string{"add", "999"}), shared.ErrNotFound)

	err := h.app.run(ctx, []string{"login", "nobody", "secret123"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	h.out.Reset()
	require.NoError(t, h.app.run(ctx, []string{"logout"}))
	assert.Contains(t, h.out.String(), "Not signed in")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shopcli.toml")
	require.NoError(t, os.WriteFile(path, []byte("server = \"http://shop.test\"\ntimeout = \"3s\"\n"), 0o600))

	t.Setenv("SHOPCLI_DATA_DIR", dir)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://shop.test", cfg.Server)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}
