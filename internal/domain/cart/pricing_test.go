package cart

import (
	"testing"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func lineWithPrice(price string, qty int) Line {
	return Line{Quantity: qty, Product: &catalog.Product{Price: price}}
}

func TestTotals_EmptyCart(t *testing.T) {
	assert.Equal(t, 0, TotalItems(nil))
	assert.Equal(t, 0, TotalItems([]Line{}))
	assert.True(t, TotalPrice(nil).IsZero())
	assert.True(t, TotalPrice([]Line{}).IsZero())
}

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  string
	}{
		{"formatted rupee price", []Line{lineWithPrice("₹1,299.00", 2)}, "2598.00"},
		{"several lines", []Line{lineWithPrice("299.99", 1), lineWithPrice("149.99", 3)}, "749.96"},
		{"malformed price counts as zero", []Line{lineWithPrice("free", 4), lineWithPrice("10", 1)}, "10"},
		{"line without product", []Line{{Quantity: 3}}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalPrice(tt.lines)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestTotalItems(t *testing.T) {
	lines := []Line{lineWithPrice("1", 2), lineWithPrice("1", 5)}
	assert.Equal(t, 7, TotalItems(lines))
}

func TestSummarize(t *testing.T) {
	s := Summarize(nil)
	assert.NotNil(t, s.Lines)
	assert.Equal(t, 0, s.TotalItems)
	assert.Equal(t, "0.00", s.TotalPrice.StringFixed(2))

	s = Summarize([]Line{lineWithPrice("₹1,299.00", 2)})
	assert.Equal(t, 2, s.TotalItems)
	assert.Equal(t, "2598.00", s.TotalPrice.StringFixed(2))
}
