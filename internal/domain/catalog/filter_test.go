package catalog

import (
	"errors"
	"testing"

	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ids(products []Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	catalog := SeedProducts()

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"empty filter keeps everything", Filter{}, []int64{1, 2, 3, 4, 5, 6, 7, 8}},
		{"category and price range", Filter{Category: "electronics", MinPrice: dec("100"), MaxPrice: dec("1000")}, []int64{1, 2, 6}},
		{"category only", Filter{Category: "furniture"}, []int64{7}},
		{"category is case sensitive", Filter{Category: "Electronics"}, []int64{}},
		{"search matches name case-insensitively", Filter{Search: "WIRELESS"}, []int64{1, 8}},
		{"search matches description", Filter{Search: "camera"}, []int64{2, 5}},
		{"min price only", Filter{MinPrice: dec("1000")}, []int64{3, 5}},
		{"max price only", Filter{MaxPrice: dec("100")}, []int64{8}},
		{"bounds are inclusive", Filter{MinPrice: dec("199.99"), MaxPrice: dec("199.99")}, []int64{4}},
		{"search and category together", Filter{Search: "premium", Category: "accessories"}, []int64{4}},
		{"nothing matches", Filter{Search: "bicycle"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(catalog)))
		})
	}
}

func TestFilter_ApplyDoesNotMutateInput(t *testing.T) {
	catalog := SeedProducts()
	out := Filter{}.Apply(catalog)
	out[0].Name = "changed"
	assert.Equal(t, "Premium Wireless Headphones", catalog[0].Name)
}

func TestFilter_ApplyUsesLenientPrices(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "a", Price: "₹1,299.00", Category: "x"},
		{ID: 2, Name: "b", Price: "call us", Category: "x"},
	}
	assert.Equal(t, []int64{1}, ids(Filter{MinPrice: dec("1000")}.Apply(products)))
	assert.Equal(t, []int64{2}, ids(Filter{MaxPrice: dec("0")}.Apply(products)))
}

func TestParseFilter(t *testing.T) {
	t.Run("empty values impose no constraint", func(t *testing.T) {
		f, err := ParseFilter("", " ", "", "")
		require.NoError(t, err)
		assert.True(t, f.IsEmpty())
	})

	t.Run("parses bounds", func(t *testing.T) {
		f, err := ParseFilter("phone", "electronics", "100", "1000.50")
		require.NoError(t, err)
		assert.Equal(t, "phone", f.Search)
		assert.Equal(t, "electronics", f.Category)
		assert.True(t, f.MinPrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, f.MaxPrice.Equal(decimal.RequireFromString("1000.50")))
	})

	t.Run("rejects non-numeric bound", func(t *testing.T) {
		_, err := ParseFilter("", "", "cheap", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Contains(t, err.Error(), "minPrice")
	})
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"electronics", "accessories", "furniture"}, Categories(SeedProducts()))
	assert.Empty(t, Categories(nil))
}
