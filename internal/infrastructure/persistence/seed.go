package persistence

import (
	"context"
	"fmt"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"go.uber.org/zap"
)

// SeedProducts loads the default catalog into an empty products table.
func SeedProducts(ctx context.Context, repo catalog.ProductRepository, logger *zap.Logger) error {
	return SeedProductsFrom(ctx, repo, catalog.SeedProducts(), logger)
}

// SeedProductsFrom loads products into an empty products table.
func SeedProductsFrom(ctx context.Context, repo catalog.ProductRepository, products []catalog.Product, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		logger.Debug("catalog already seeded", zap.Int64("products", n))
		return nil
	}

	if err := repo.SaveBatch(ctx, products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	logger.Info("catalog seeded", zap.Int("products", len(products)))
	return nil
}
