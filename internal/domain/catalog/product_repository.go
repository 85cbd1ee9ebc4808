package catalog

import "context"

// Source is the read side of the catalog.
type Source interface {
	// ListProducts returns every product in catalog order (ascending id).
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct returns shared.ErrNotFound when no product has the id.
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// FindByIDs returns the products that exist among ids, in catalog order.
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
}

// ProductRepository adds the write operations used by seeding.
type ProductRepository interface {
	Source

	// Count returns the number of stored products.
	Count(ctx context.Context) (int64, error)

	// SaveBatch inserts products, keeping their ids.
	SaveBatch(ctx context.Context, products []Product) error
}
