package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopcraft/storefront/internal/domain/catalog"
)

// ProductQuery holds the server-side catalog filters.
type ProductQuery struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", q.Search)
	set("category", q.Category)
	set("minPrice", q.MinPrice)
	set("maxPrice", q.MaxPrice)
	return v
}

// Catalog is a catalog.Source backed by the products endpoints.
type Catalog struct {
	c *Client
}

// Catalog returns the product source of the API.
func (c *Client) Catalog() *Catalog {
	return &Catalog{c: c}
}

// Search returns the products matching q.
func (s *Catalog) Search(ctx context.Context, q ProductQuery) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := s.c.do(ctx, http.MethodGet, "products", q.values(), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProducts implements catalog.Source.
func (s *Catalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.Search(ctx, ProductQuery{})
}

// GetProduct implements catalog.Source.
func (s *Catalog) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := s.c.do(ctx, http.MethodGet, "products/"+strconv.FormatInt(id, 10), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs implements catalog.Source with one listing call.
func (s *Catalog) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	all, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]catalog.Product, 0, len(ids))
	for _, p := range all {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns the distinct product categories.
func (s *Catalog) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := s.c.do(ctx, http.MethodGet, "categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
