package catalog

import (
	"context"
	"errors"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
)

// ProductService handles catalog queries.
type ProductService struct {
	source catalog.Source
}

// NewProductService creates a new ProductService
func NewProductService(source catalog.Source) *ProductService {
	return &ProductService{source: source}
}

// List returns the products matching the query, in catalog order.
func (s *ProductService) List(ctx context.Context, query ProductListQuery) ([]catalog.Product, error) {
	filter, err := catalog.ParseFilter(query.Search, query.Category, query.MinPrice, query.MaxPrice)
	if err != nil {
		return nil, err
	}
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(products), nil
}

// GetByID returns one product.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	product, err := s.source.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Product not found")
		}
		return nil, err
	}
	return product, nil
}

// Categories returns the distinct product categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Categories(products), nil
}
