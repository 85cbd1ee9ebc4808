package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	appcart "github.com/shopcraft/storefront/internal/application/cart"
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
)

// CartStore is the signed-in user's server cart. The server scopes every
// call by the bearer token, so the store holds no owner id of its own.
type CartStore struct {
	c *Client
}

// CartStore returns the remote cart of the token holder.
func (c *Client) CartStore() *CartStore {
	return &CartStore{c: c}
}

func toLine(r appcart.LineResponse) cart.Line {
	return cart.Line{
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		OwnerID:   r.UserID,
		Product:   r.Product,
	}
}

func linePath(id int64) string {
	return "cart/" + strconv.FormatInt(id, 10)
}

// AddLine implements cart.Store.
func (s *CartStore) AddLine(ctx context.Context, product *catalog.Product, quantity int) (*cart.Line, error) {
	if product == nil {
		return nil, shared.ErrInvalidInput.WithMessage("product is required")
	}
	var resp appcart.LineResponse
	body := appcart.AddItemRequest{ProductID: product.ID, Quantity: &quantity}
	if err := s.c.do(ctx, http.MethodPost, "cart", nil, body, &resp); err != nil {
		return nil, err
	}
	line := toLine(resp)
	return &line, nil
}

// SetQuantity implements cart.Store. A quantity of zero or less removes the
// line on the server and returns nil.
func (s *CartStore) SetQuantity(ctx context.Context, lineID int64, quantity int) (*cart.Line, error) {
	body := appcart.UpdateItemRequest{Quantity: &quantity}
	if quantity <= 0 {
		return nil, s.c.do(ctx, http.MethodPut, linePath(lineID), nil, body, nil)
	}
	var resp appcart.LineResponse
	if err := s.c.do(ctx, http.MethodPut, linePath(lineID), nil, body, &resp); err != nil {
		return nil, err
	}
	line := toLine(resp)
	return &line, nil
}

// RemoveLine implements cart.Store.
func (s *CartStore) RemoveLine(ctx context.Context, lineID int64) (bool, error) {
	err := s.c.do(ctx, http.MethodDelete, linePath(lineID), nil, nil, nil)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clear implements cart.Store.
func (s *CartStore) Clear(ctx context.Context) error {
	return s.c.do(ctx, http.MethodDelete, "cart", nil, nil, nil)
}

// ListLines implements cart.Store.
func (s *CartStore) ListLines(ctx context.Context) ([]cart.Line, error) {
	var resp appcart.CartResponse
	if err := s.c.do(ctx, http.MethodGet, "cart", nil, nil, &resp); err != nil {
		return nil, err
	}
	lines := make([]cart.Line, 0, len(resp.Items))
	for _, item := range resp.Items {
		lines = append(lines, toLine(item))
	}
	return lines, nil
}
