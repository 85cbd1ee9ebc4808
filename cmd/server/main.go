package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	cartapp "github.com/shopcraft/storefront/internal/application/cart"
	catalogapp "github.com/shopcraft/storefront/internal/application/catalog"
	identityapp "github.com/shopcraft/storefront/internal/application/identity"
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/infrastructure/auth"
	"github.com/shopcraft/storefront/internal/infrastructure/cache"
	"github.com/shopcraft/storefront/internal/infrastructure/config"
	"github.com/shopcraft/storefront/internal/infrastructure/csvimport"
	"github.com/shopcraft/storefront/internal/infrastructure/logger"
	"github.com/shopcraft/storefront/internal/infrastructure/persistence"
	"github.com/shopcraft/storefront/internal/infrastructure/scheduler"
	"github.com/shopcraft/storefront/internal/infrastructure/storage"
	"github.com/shopcraft/storefront/internal/infrastructure/telemetry"
	"github.com/shopcraft/storefront/internal/interfaces/http/handler"
	"github.com/shopcraft/storefront/internal/interfaces/http/middleware"
	"github.com/shopcraft/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.FromLogConfig(cfg.Log, cfg.App.Env)
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Log export has to exist before the real logger so the bridge core can
	// be teed in.
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsFromConfig(cfg.Telemetry), bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg,
		telemetry.NewZapOTELCore(logProvider, cfg.Telemetry.ServiceName, logger.ParseLevel(logCfg.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.FromConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsFromConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownTelemetry(log, tracerProvider, meterProvider, logProvider)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerFromConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		_ = profiler.Stop()
	}()
	if profiler.IsEnabled() && cfg.Telemetry.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormMode))
	db, err := persistence.NewDatabase(cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(db.Driver), log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	if cfg.Database.Seed {
		if err := seedCatalog(ctx, cfg.Database, productRepo, log); err != nil {
			log.Fatal("Failed to seed catalog", zap.Error(err))
		}
	}

	// Redis
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	// Carts
	guests, err := storage.NewGuestStoreFactoryFromConfig(cfg.Cart, redisClient, log)
	if err != nil {
		log.Fatal("Failed to initialize guest cart storage", zap.Error(err))
	}
	remote := ownerStores(cfg, db, redisClient, log)

	var jobs []scheduler.Job
	if job, ok := scheduler.GuestCartSweepJob(cfg.Cart, log); ok {
		jobs = append(jobs, job)
	}
	maintenance := scheduler.New(log, jobs...)
	maintenance.Start(ctx)

	cartMetrics, err := telemetry.NewCartMetrics(meterProvider, log)
	if err != nil {
		log.Fatal("Failed to initialize cart metrics", zap.Error(err))
	}
	selector := cartapp.NewSelector(cartapp.ContextIdentity(), guests.Open, remote, log)
	cartService := cartapp.NewService(selector, productRepo,
		cartapp.WithMetrics(cartMetrics),
		cartapp.WithLogger(log),
	)

	// Auth endpoints are throttled per client address
	var authLimiter middleware.Limiter
	if cfg.HTTP.AuthRateLimitEnabled {
		if redisClient != nil {
			authLimiter = middleware.NewRedisRateLimiter(redisClient, "ratelimit:auth:",
				cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		} else {
			memLimiter := middleware.NewMemoryRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
			defer memLimiter.Stop()
			authLimiter = memLimiter
		}
	}

	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	engine, err := router.New(router.Handlers{
		Products: handler.NewProductHandler(catalogapp.NewProductService(productRepo)),
		Cart:     handler.NewCartHandler(cartService),
		Auth:     handler.NewAuthHandler(authService),
		Health:   handler.NewHealthHandler(log, checks...),
	}, router.Options{
		Logger:    log,
		Validator: authService,
		Session: middleware.GuestSessionConfig{
			CookieName: cfg.Cart.SessionCookie,
			Secure:     cfg.Cart.SecureCookie,
			MaxAge:     cfg.Cart.GuestTTL,
		},
		AuthLimiter: authLimiter,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Metrics:        meterProvider,
		Security:       securityConfig(cfg),
		CORSOrigins:    cfg.HTTP.CORSAllowOrigins,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := maintenance.Stop(shutdownCtx); err != nil {
		log.Warn("Background jobs did not stop in time", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// ownerStores builds the persisted cart of a signed in customer: the GORM
// store, optionally behind the read cache, wrapped in a tracing decorator.
func ownerStores(cfg *config.Config, db *persistence.Database, client redis.UniversalClient, log *zap.Logger) cartapp.RemoteStoreFactory {
	var lineCache cache.CartCache
	if cfg.Cart.CacheEnabled {
		if client != nil {
			lineCache = cache.NewRedisCartCache(client, cfg.Cart.CacheTTL)
		} else {
			lineCache = cache.NewInMemoryCartCache(cfg.Cart.CacheTTL)
		}
		log.Info("Cart read cache enabled", zap.Duration("ttl", cfg.Cart.CacheTTL))
	}

	return func(_ context.Context, ownerID int64) (cart.Store, error) {
		var store cart.Store = persistence.NewGormCartStore(db.DB, ownerID)
		if lineCache != nil {
			store = cache.NewCachingStore(store, lineCache, ownerID, log)
		}
		return telemetry.NewTracingStore(store, cart.OwnerScope(ownerID)), nil
	}
}

func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sec := middleware.DefaultSecurityConfig()
	sec.HSTSEnabled = cfg.IsProduction()
	return sec
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(log *zap.Logger, providers ...shutdowner) {
	ctx := context.Background()
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}
}

// seedCatalog loads the CSV catalog named by seed_file, or the built-in
// products when none is configured.
func seedCatalog(ctx context.Context, cfg config.DatabaseConfig, repo catalog.ProductRepository, log *zap.Logger) error {
	if cfg.SeedFile == "" {
		return persistence.SeedProducts(ctx, repo, log)
	}
	products, err := csvimport.LoadProductsFile(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("seed file %s: %w", cfg.SeedFile, err)
	}
	log.Info("Loaded catalog file", zap.String("path", cfg.SeedFile), zap.Int("products", len(products)))
	return persistence.SeedProductsFrom(ctx, repo, products, log)
}
