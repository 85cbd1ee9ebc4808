package cart

import (
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product to the active cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  *int  `json:"quantity"`
}

// UpdateItemRequest overwrites a line's quantity; zero or less removes it.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// LineResponse is a cart line in API responses.
type LineResponse struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	UserID    *int64           `json:"userId"`
	Product   *catalog.Product `json:"product,omitempty"`
	Subtotal  string           `json:"subtotal"`
}

// CartResponse is the active cart with its totals.
type CartResponse struct {
	Items      []LineResponse `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPrice string         `json:"totalPrice"`
}

// ToLineResponse converts a domain line.
func ToLineResponse(l cart.Line) LineResponse {
	subtotal := decimal.Zero
	if l.Product != nil {
		subtotal = valueobject.ParsePrice(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
	}
	return LineResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UserID:    l.OwnerID,
		Product:   l.Product,
		Subtotal:  valueobject.FormatPrice(subtotal),
	}
}

// ToCartResponse converts a priced summary.
func ToCartResponse(s cart.Summary) *CartResponse {
	items := make([]LineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, ToLineResponse(l))
	}
	return &CartResponse{
		Items:      items,
		TotalItems: s.TotalItems,
		TotalPrice: valueobject.FormatPrice(s.TotalPrice),
	}
}
