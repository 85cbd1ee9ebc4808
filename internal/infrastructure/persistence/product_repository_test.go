package persistence

import (
	"context"
	"testing"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGormProductRepository(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedTestCatalog(t, db)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	t.Run("lists in id order with optional fields", func(t *testing.T) {
		products, err := repo.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, len(seeded))
		for i := range products {
			assert.Equal(t, seeded[i].ID, products[i].ID)
		}
		assert.Equal(t, seeded[0].OriginalPrice, products[0].OriginalPrice)
		assert.Equal(t, seeded[0].Rating, products[0].Rating)
	})

	t.Run("get by id", func(t *testing.T) {
		p, err := repo.GetProduct(ctx, seeded[2].ID)
		require.NoError(t, err)
		assert.Equal(t, seeded[2].Name, p.Name)
		assert.Equal(t, seeded[2].Price, p.Price)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.GetProduct(ctx, 9999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by ids skips unknown ids", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, []int64{3, 9999, 1})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, int64(1), products[0].ID)
		assert.Equal(t, int64(3), products[1].ID)

		empty, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("save batch upserts by id", func(t *testing.T) {
		changed := seeded[0]
		changed.Name = "Renamed"
		require.NoError(t, repo.SaveBatch(ctx, []catalog.Product{changed}))

		p, err := repo.GetProduct(ctx, changed.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", p.Name)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(len(seeded)), n)
	})
}

func TestSeedProducts_OnlyWhenEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	require.NoError(t, SeedProducts(ctx, repo, zap.NewNop()))
	first, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Positive(t, first)

	p, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	p.Name = "Edited"
	require.NoError(t, repo.SaveBatch(ctx, []catalog.Product{*p}))

	require.NoError(t, SeedProducts(ctx, repo, zap.NewNop()))
	again, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Edited", again.Name, "a seeded catalog is left alone")
}
