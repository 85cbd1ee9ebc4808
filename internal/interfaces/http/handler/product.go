package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopcraft/storefront/internal/application/catalog"
)

// ProductHandler serves the product catalog
type ProductHandler struct {
	BaseHandler
	products *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *catalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts handles GET /products with the search, category, minPrice and
// maxPrice filters.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var query catalog.ProductListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	products, err := h.products.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, products, len(products))
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "Invalid product ID")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}
