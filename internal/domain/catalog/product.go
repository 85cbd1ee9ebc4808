package catalog

import (
	"strings"

	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are seeded once and treated as
// immutable afterwards, so values can be shared between cart snapshots.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         string  `json:"price"`
	OriginalPrice *string `json:"originalPrice,omitempty"`
	Category      string  `json:"category"`
	Rating        *string `json:"rating,omitempty"`
	Image         string  `json:"image"`
	InStock       bool    `json:"inStock"`
	Featured      bool    `json:"featured"`
}

// NewProduct validates and builds a product.
func NewProduct(id int64, name, description, price, category, image string) (*Product, error) {
	if id <= 0 {
		return nil, shared.ErrInvalidInput.WithMessage("product id must be positive")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("product name cannot be empty")
	}
	if strings.TrimSpace(category) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("product category cannot be empty")
	}
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Image:       image,
		InStock:     true,
	}, nil
}

// Amount is the parsed numeric price.
func (p *Product) Amount() decimal.Decimal {
	return valueobject.ParsePrice(p.Price)
}

// Discounted reports whether the product carries an original price above
// its current one.
func (p *Product) Discounted() bool {
	if p.OriginalPrice == nil {
		return false
	}
	return valueobject.ParsePrice(*p.OriginalPrice).GreaterThan(p.Amount())
}

// Clone returns a copy that does not share pointer fields.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		c.OriginalPrice = &v
	}
	if p.Rating != nil {
		v := *p.Rating
		c.Rating = &v
	}
	return &c
}
