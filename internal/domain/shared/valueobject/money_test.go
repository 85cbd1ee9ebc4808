package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain decimal", "299.99", "299.99"},
		{"rupee with thousands separator", "₹1,299.00", "1299"},
		{"dollar with space", "$ 49.5", "49.5"},
		{"integer", "100", "100"},
		{"no numeric content", "free", "0"},
		{"empty string", "", "0"},
		{"only dots", "...", "0"},
		{"leading dot", ".75", "0.75"},
		{"trailing dot", "12.", "12"},
		{"second dot terminates", "1.2.3", "1.2"},
		{"minus sign discarded", "-15.00", "15"},
		{"letters interleaved", "USD 1 2 3.4 only", "123.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"ParsePrice(%q) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestParsePrice_NeverNegative(t *testing.T) {
	for _, in := range []string{"-1", "--2.5", "−3", "(4.00)"} {
		assert.False(t, ParsePrice(in).IsNegative(), in)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1299.00", FormatPrice(ParsePrice("₹1,299.00")))
	assert.Equal(t, "0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "2598.00", FormatPrice(ParsePrice("1299").Mul(decimal.NewFromInt(2))))
}
