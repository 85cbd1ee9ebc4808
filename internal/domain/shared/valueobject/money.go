package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits used when rendering amounts.
const PriceScale = 2

// ParsePrice converts a display price such as "₹1,299.00" or "$ 49.5" into an
// amount. Everything except ASCII digits and '.' is discarded first, then the
// longest numeric prefix of what remains is parsed: "1.2.3" yields 1.2.
//
// ParsePrice never fails. Input without any numeric content yields zero, and
// the result is never negative because '-' is discarded with the rest.
// It is meant for display totals, not for ledger arithmetic.
func ParsePrice(s string) decimal.Decimal {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}

	num := numericPrefix(b.String())
	if num == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the longest prefix of s made of digits with at most one
// decimal point, trimmed so that it always contains at least one digit.
func numericPrefix(s string) string {
	end := 0
	seenDot := false
	digits := 0
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			digits++
		}
		end++
	}
	if digits == 0 {
		return ""
	}
	num := strings.TrimSuffix(s[:end], ".")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}
	return num
}

// FormatPrice renders an amount with two fractional digits, e.g. "2598.00".
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(PriceScale)
}
