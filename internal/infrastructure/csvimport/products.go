package csvimport

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product columns. id, name, price and category are required.
const (
	ColID            = "id"
	ColName          = "name"
	ColDescription   = "description"
	ColPrice         = "price"
	ColOriginalPrice = "original_price"
	ColCategory      = "category"
	ColRating        = "rating"
	ColImage         = "image"
	ColInStock       = "in_stock"
	ColFeatured      = "featured"
)

var requiredColumns = []string{ColID, ColName, ColPrice, ColCategory}

// ReadProducts parses a product catalog. All rows are checked before
// anything is returned; a file with any bad row yields Errors and no
// products.
func ReadProducts(r io.Reader, opts ...ParserOption) ([]catalog.Product, error) {
	p, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := p.MissingHeaders(requiredColumns...); len(missing) > 0 {
		return nil, shared.ErrInvalidInput.WithMessage("CSV file is missing columns: " + strings.Join(missing, ", "))
	}

	var (
		products []catalog.Product
		problems Errors
		seen     = make(map[int64]int)
	)
	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var re *RowError
			if errors.As(err, &re) {
				problems = append(problems, re)
				continue
			}
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}

		product, rowErrs := productFromRow(row)
		if len(rowErrs) > 0 {
			problems = append(problems, rowErrs...)
			continue
		}
		if first, dup := seen[product.ID]; dup {
			problems = append(problems, &RowError{
				Line:    row.Line,
				Column:  ColID,
				Value:   row.Get(ColID),
				Message: "duplicate id, first used on line " + strconv.Itoa(first),
			})
			continue
		}
		seen[product.ID] = row.Line
		products = append(products, *product)
	}

	if len(problems) > 0 {
		return nil, problems
	}
	if len(products) == 0 {
		return nil, ErrEmptyFile
	}
	return products, nil
}

// LoadProductsFile is ReadProducts on a file path.
func LoadProductsFile(path string) ([]catalog.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadProducts(f)
}

func productFromRow(row *Row) (*catalog.Product, Errors) {
	var errs Errors
	fail := func(col, msg string) {
		errs = append(errs, &RowError{Line: row.Line, Column: col, Value: row.Get(col), Message: msg})
	}

	id, err := strconv.ParseInt(row.Get(ColID), 10, 64)
	if err != nil || id <= 0 {
		fail(ColID, "must be a positive integer")
	}
	price, ok := parseAmount(row.Get(ColPrice))
	if !ok {
		fail(ColPrice, "must be a non-negative decimal")
	}

	var original *string
	if v := row.Get(ColOriginalPrice); v != "" {
		if amount, ok := parseAmount(v); !ok {
			fail(ColOriginalPrice, "must be a non-negative decimal")
		} else {
			original = &amount
		}
	}
	var rating *string
	if v := row.Get(ColRating); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(5)) {
			fail(ColRating, "must be between 0 and 5")
		} else {
			rating = &v
		}
	}
	inStock := parseBool(row, ColInStock, true, fail)
	featured := parseBool(row, ColFeatured, false, fail)

	if len(errs) > 0 {
		return nil, errs
	}

	product, err := catalog.NewProduct(id, row.Get(ColName), row.Get(ColDescription), price, row.Get(ColCategory), row.Get(ColImage))
	if err != nil {
		msg := err.Error()
		var de *shared.DomainError
		if errors.As(err, &de) {
			msg = de.Message
		}
		return nil, Errors{{Line: row.Line, Message: msg}}
	}
	product.OriginalPrice = original
	product.Rating = rating
	product.InStock = inStock
	product.Featured = featured
	return product, nil
}

// parseAmount validates a money value and returns it with two decimals.
func parseAmount(s string) (string, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return "", false
	}
	return d.StringFixed(2), true
}

func parseBool(row *Row, col string, def bool, fail func(col, msg string)) bool {
	v := row.Get(col)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "yes", "y":
		return true
	case "no", "n":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		fail(col, "must be true or false")
		return def
	}
	return b
}
