package catalog

// ProductListQuery holds the listing query parameters. Prices stay strings
// here so that a malformed bound is reported instead of silently dropped.
type ProductListQuery struct {
	Search   string `form:"search" binding:"max=200"`
	Category string `form:"category" binding:"max=100"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
}
