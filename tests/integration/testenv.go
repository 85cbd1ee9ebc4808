// Package integration runs the storefront's storage layers against real
// PostgreSQL and Redis servers started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopcraft/storefront/internal/infrastructure/config"
	"github.com/shopcraft/storefront/internal/infrastructure/migration"
	"github.com/shopcraft/storefront/internal/infrastructure/persistence"
	"github.com/shopcraft/storefront/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	// Shared containers for all tests in the package
	sharedMu       sync.Mutex
	sharedPostgres *tcpostgres.PostgresContainer
	sharedRedis    testcontainers.Container
)

// TestDB is a migrated database inside the shared postgres container.
type TestDB struct {
	*persistence.Database
	Config config.DatabaseConfig
}

// NewTestDB creates a fresh database in the shared container and applies the
// embedded migrations to it.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	admin := postgresConfig(t, ctx, "storefront")
	dbName := fmt.Sprintf("shop_%d", time.Now().UnixNano())

	adminDB, err := persistence.NewDatabase(admin)
	require.NoError(t, err, "Failed to connect to admin database")
	require.NoError(t, adminDB.DB.Exec("CREATE DATABASE "+dbName).Error)
	require.NoError(t, adminDB.Close())

	cfg := admin
	cfg.DBName = dbName
	db, err := persistence.NewDatabase(cfg)
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, nil)
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")

	t.Cleanup(func() {
		_ = db.Close()
	})
	return &TestDB{Database: db, Config: cfg}
}

func postgresConfig(t *testing.T, ctx context.Context, dbName string) config.DatabaseConfig {
	t.Helper()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedPostgres == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase(dbName),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("admin123"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")
		sharedPostgres = container
	}

	host, err := sharedPostgres.Host(ctx)
	require.NoError(t, err)
	port, err := sharedPostgres.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "admin123",
		DBName:          dbName,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5,
	}
}

// NewTestRedis returns a client of the shared redis container with an empty
// keyspace.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	sharedMu.Lock()
	if sharedRedis == nil {
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			sharedMu.Unlock()
			require.NoError(t, err, "Failed to start Redis container")
		}
		sharedRedis = container
	}
	sharedMu.Unlock()

	endpoint, err := sharedRedis.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

// CleanupContainers terminates the shared containers. Call it from TestMain.
func CleanupContainers() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	ctx := context.Background()
	if sharedPostgres != nil {
		_ = sharedPostgres.Terminate(ctx)
		sharedPostgres = nil
	}
	if sharedRedis != nil {
		_ = sharedRedis.Terminate(ctx)
		sharedRedis = nil
	}
}
