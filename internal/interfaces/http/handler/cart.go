package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopcraft/storefront/internal/application/cart"
)

// CartHandler serves the active cart, whichever store backs it
type CartHandler struct {
	BaseHandler
	carts *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	resp, err := h.carts.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem handles POST /cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.carts.Add(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, line)
}

// UpdateItem handles PUT /cart/:id. A quantity of zero or less removes the
// line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "Invalid cart item ID")
	if !ok {
		return
	}
	var req cart.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.carts.SetQuantity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if line == nil {
		h.Message(c, "Item removed from cart")
		return
	}
	h.Success(c, line)
}

// RemoveItem handles DELETE /cart/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "Invalid cart item ID")
	if !ok {
		return
	}

	removed, err := h.carts.Remove(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !removed {
		h.NotFound(c, "Cart item not found")
		return
	}
	h.Message(c, "Item removed from cart")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Cart cleared")
}
