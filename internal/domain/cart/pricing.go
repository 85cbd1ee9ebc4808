package cart

import (
	"github.com/shopcraft/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Summary is a priced view of a cart.
type Summary struct {
	Lines      []Line
	TotalItems int
	TotalPrice decimal.Decimal
}

// TotalItems sums the quantities of lines.
func TotalItems(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums price times quantity over lines. Prices go through the
// lenient parser, so a malformed price counts as zero; so does a line
// without a product snapshot.
func TotalPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Product == nil {
			continue
		}
		amount := valueobject.ParsePrice(l.Product.Price)
		total = total.Add(amount.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Summarize prices lines.
func Summarize(lines []Line) Summary {
	if lines == nil {
		lines = []Line{}
	}
	return Summary{
		Lines:      lines,
		TotalItems: TotalItems(lines),
		TotalPrice: TotalPrice(lines),
	}
}
