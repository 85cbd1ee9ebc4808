package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopcraft/storefront/internal/infrastructure/logger"
	"github.com/shopcraft/storefront/internal/infrastructure/telemetry"
	"github.com/shopcraft/storefront/internal/interfaces/http/handler"
	"github.com/shopcraft/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by New.
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Auth     *handler.AuthHandler
	Health   *handler.HealthHandler
}

// Options configures the middleware chain built by New.
type Options struct {
	Logger         *zap.Logger
	Validator      middleware.TokenValidator
	Session        middleware.GuestSessionConfig
	AuthLimiter    middleware.Limiter
	Tracing        middleware.TracingConfig
	Metrics        *telemetry.MeterProvider
	Security       middleware.SecurityConfig
	CORSOrigins    []string
	MaxBodySize    int64
	TrustedProxies []string
}

// New builds the gin engine with the full middleware chain and every route.
func New(h Handlers, opts Options) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(log),
		logger.GinMiddleware(log),
		middleware.Tracing(opts.Tracing),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(opts.Metrics, log),
		middleware.Secure(opts.Security),
		middleware.CORS(opts.CORSOrigins),
		middleware.BodyLimit(opts.MaxBodySize),
	)

	if h.Health != nil {
		engine.GET("/health", h.Health.Live)
		engine.GET("/health/ready", h.Health.Ready)
	}

	authenticate := middleware.OptionalAuth(opts.Validator, log)
	areas := []*Area{
		ProductRoutes(h.Products),
		CartRoutes(h.Cart, authenticate, middleware.GuestSession(opts.Session), middleware.SpanAttributes()),
		AuthRoutes(h.Auth, opts.AuthLimiter, log, authenticate, middleware.SpanAttributes()),
	}
	Mount(engine, areas...)
	if ce := log.Check(zap.DebugLevel, "Routes mounted"); ce != nil {
		var table []string
		for _, a := range areas {
			table = append(table, a.Routes(APIPrefix)...)
		}
		ce.Write(zap.Strings("routes", table))
	}
	return engine, nil
}

// ProductRoutes mounts the catalog endpoints.
func ProductRoutes(h *handler.ProductHandler) *Area {
	return NewArea("").
		GET("/products", h.ListProducts).
		GET("/products/:id", h.GetProduct).
		GET("/categories", h.ListCategories)
}

// CartRoutes mounts the cart endpoints behind the identity middleware.
func CartRoutes(h *handler.CartHandler, identity ...gin.HandlerFunc) *Area {
	return NewArea("/cart", identity...).
		GET("", h.GetCart).
		POST("", h.AddItem).
		DELETE("", h.ClearCart).
		PUT("/:id", h.UpdateItem).
		DELETE("/:id", h.RemoveItem)
}

// AuthRoutes mounts the account endpoints. When limiter is set every auth
// endpoint is rate limited per client.
func AuthRoutes(h *handler.AuthHandler, limiter middleware.Limiter, log *zap.Logger, authenticate ...gin.HandlerFunc) *Area {
	var limit []gin.HandlerFunc
	if limiter != nil {
		limit = append(limit, middleware.RateLimit(limiter, log))
	}
	a := NewArea("/auth", limit...).
		POST("/register", h.Register).
		POST("/login", h.Login).
		POST("/refresh", h.RefreshToken)

	protected := append(append([]gin.HandlerFunc{}, authenticate...), middleware.RequireAuth())
	a.Nest("", protected...).
		POST("/logout", h.Logout).
		GET("/profile", h.Profile)
	return a
}
