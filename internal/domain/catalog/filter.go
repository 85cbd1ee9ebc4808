package catalog

import (
	"strings"

	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Filter selects products for a listing. Zero-valued criteria impose no
// constraint; the ones that are set must all hold.
type Filter struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// IsEmpty reports whether the filter keeps every product.
func (f Filter) IsEmpty() bool {
	return f.Search == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Apply returns the products that satisfy the filter, in their original order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	if f.IsEmpty() {
		return append(out, products...)
	}

	// Caser values carry state and must not be shared across goroutines.
	fold := cases.Fold()
	term := fold.String(f.Search)

	for _, p := range products {
		if term != "" &&
			!strings.Contains(fold.String(p.Name), term) &&
			!strings.Contains(fold.String(p.Description), term) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MinPrice != nil || f.MaxPrice != nil {
			amount := valueobject.ParsePrice(p.Price)
			if f.MinPrice != nil && amount.LessThan(*f.MinPrice) {
				continue
			}
			if f.MaxPrice != nil && amount.GreaterThan(*f.MaxPrice) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// ParseFilter builds a Filter from raw query values. Empty strings mean "not
// given"; a price bound that is present but not a number is rejected.
func ParseFilter(search, category, minPrice, maxPrice string) (Filter, error) {
	f := Filter{
		Search:   strings.TrimSpace(search),
		Category: strings.TrimSpace(category),
	}

	var err error
	if f.MinPrice, err = parseBound("minPrice", minPrice); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = parseBound("maxPrice", maxPrice); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func parseBound(name, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage(name + " must be a number")
	}
	return &d, nil
}

// Categories returns the distinct categories of products in order of first
// appearance.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
