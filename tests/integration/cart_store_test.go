package integration

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/identity"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupContainers()
	os.Exit(code)
}

type cartFixture struct {
	db       *TestDB
	products *persistence.GormProductRepository
	users    *persistence.GormUserRepository
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	db := NewTestDB(t)
	products := persistence.NewGormProductRepository(db.DB)
	require.NoError(t, persistence.SeedProducts(context.Background(), products, zap.NewNop()))
	return &cartFixture{db: db, products: products, users: persistence.NewGormUserRepository(db.DB)}
}

func (f *cartFixture) user(t *testing.T, name string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, "secret123")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *cartFixture) product(t *testing.T, id int64) *catalog.Product {
	t.Helper()
	p, err := f.products.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p
}

func TestGormCartStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newCartFixture(t)
	ctx := context.Background()

	t.Run("add merges lines and totals come back from postgres", func(t *testing.T) {
		owner := f.user(t, "alice")
		store := persistence.NewGormCartStore(f.db.DB, owner.ID)

		_, err := store.AddLine(ctx, f.product(t, 1), 2)
		require.NoError(t, err)
		line, err := store.AddLine(ctx, f.product(t, 1), 1)
		require.NoError(t, err)
		assert.Equal(t, 3, line.Quantity)
		require.NotNil(t, line.Product)
		assert.Equal(t, "299.99", line.Product.Price)

		lines, err := store.ListLines(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		require.NotNil(t, lines[0].OwnerID)
		assert.Equal(t, owner.ID, *lines[0].OwnerID)
	})

	t.Run("concurrent adds of one product never lose an update", func(t *testing.T) {
		owner := f.user(t, "bob")
		store := persistence.NewGormCartStore(f.db.DB, owner.ID)
		product := f.product(t, 4)

		const workers = 12
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.AddLine(ctx, product, 1); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		lines, err := store.ListLines(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, workers, lines[0].Quantity)
	})

	t.Run("owners never see each other's lines", func(t *testing.T) {
		carol := f.user(t, "carol")
		dave := f.user(t, "dave")
		carolStore := persistence.NewGormCartStore(f.db.DB, carol.ID)
		daveStore := persistence.NewGormCartStore(f.db.DB, dave.ID)

		line, err := carolStore.AddLine(ctx, f.product(t, 2), 1)
		require.NoError(t, err)

		_, err = daveStore.SetQuantity(ctx, line.ID, 5)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		removed, err := daveStore.RemoveLine(ctx, line.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		require.NoError(t, daveStore.Clear(ctx))
		lines, err := carolStore.ListLines(ctx)
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("set quantity to zero deletes the line", func(t *testing.T) {
		owner := f.user(t, "erin")
		store := persistence.NewGormCartStore(f.db.DB, owner.ID)

		line, err := store.AddLine(ctx, f.product(t, 3), 2)
		require.NoError(t, err)

		updated, err := store.SetQuantity(ctx, line.ID, 0)
		require.NoError(t, err)
		assert.Nil(t, updated)

		lines, err := store.ListLines(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("unknown product is rejected by the foreign key", func(t *testing.T) {
		owner := f.user(t, "frank")
		store := persistence.NewGormCartStore(f.db.DB, owner.ID)

		ghost := f.product(t, 1).Clone()
		ghost.ID = 999
		_, err := store.AddLine(ctx, ghost, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newCartFixture(t)
	ctx := context.Background()

	f.user(t, "Grace")

	dup, err := identity.NewUser("grace", "secret123")
	require.NoError(t, err)
	assert.ErrorIs(t, f.users.Create(ctx, dup), shared.ErrAlreadyExists)

	found, err := f.users.FindByUsername(ctx, "Grace")
	require.NoError(t, err)
	assert.True(t, found.VerifyPassword("secret123"))
}
