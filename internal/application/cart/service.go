package cart

import (
	"context"
	"errors"

	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// Operation names reported to Metrics.
const (
	OpAdd         = "add"
	OpSetQuantity = "set_quantity"
	OpRemove      = "remove"
	OpClear       = "clear"
	OpList        = "list"
)

// Metrics receives one call per cart operation.
type Metrics interface {
	RecordOperation(ctx context.Context, op string, scope cart.Scope, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordOperation(context.Context, string, cart.Scope, error) {}

// Service handles cart use cases on top of the Selector.
type Service struct {
	selector *Selector
	products catalog.Source
	metrics  Metrics
	logger   *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMetrics sets the operation recorder.
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a cart Service.
func NewService(selector *Selector, products catalog.Source, opts ...ServiceOption) *Service {
	s := &Service{
		selector: selector,
		products: products,
		metrics:  noopMetrics{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add puts quantity units of a product in the active cart, merging with an
// existing line for the same product.
func (s *Service) Add(ctx context.Context, req AddItemRequest) (resp *LineResponse, err error) {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return nil, shared.ErrInvalidInput.WithMessage("Quantity must be positive")
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Product not found")
		}
		return nil, err
	}
	if !product.InStock {
		return nil, shared.ErrOutOfStock.WithMessage(product.Name + " is out of stock")
	}

	scope, store, err := s.selector.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { s.metrics.RecordOperation(ctx, OpAdd, scope, err) }()

	line, err := store.AddLine(ctx, product, quantity)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("cart line added",
		zap.String("scope", scope.Key()),
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", line.Quantity))

	out := ToLineResponse(*line)
	return &out, nil
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less removes
// the line, in which case the returned line is nil.
func (s *Service) SetQuantity(ctx context.Context, lineID int64, req UpdateItemRequest) (resp *LineResponse, err error) {
	if req.Quantity == nil {
		return nil, shared.ErrInvalidInput.WithMessage("quantity is required")
	}

	scope, store, err := s.selector.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { s.metrics.RecordOperation(ctx, OpSetQuantity, scope, err) }()

	if *req.Quantity <= 0 {
		removed, err := store.RemoveLine(ctx, lineID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, shared.ErrNotFound.WithMessage("Cart item not found")
		}
		return nil, nil
	}

	line, err := store.SetQuantity(ctx, lineID, *req.Quantity)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, nil
	}
	out := ToLineResponse(*line)
	return &out, nil
}

// Remove deletes a line and reports whether it existed.
func (s *Service) Remove(ctx context.Context, lineID int64) (removed bool, err error) {
	scope, store, err := s.selector.Resolve(ctx)
	if err != nil {
		return false, err
	}
	defer func() { s.metrics.RecordOperation(ctx, OpRemove, scope, err) }()

	return store.RemoveLine(ctx, lineID)
}

// Clear empties the active cart.
func (s *Service) Clear(ctx context.Context) (err error) {
	scope, store, err := s.selector.Resolve(ctx)
	if err != nil {
		return err
	}
	defer func() { s.metrics.RecordOperation(ctx, OpClear, scope, err) }()

	return store.Clear(ctx)
}

// Get returns the active cart with current product data and totals.
func (s *Service) Get(ctx context.Context) (resp *CartResponse, err error) {
	scope, store, err := s.selector.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { s.metrics.RecordOperation(ctx, OpList, scope, err) }()

	lines, err := store.ListLines(ctx)
	if err != nil {
		return nil, err
	}
	lines, err = s.join(ctx, lines)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(cart.Summarize(lines)), nil
}

// join replaces each line's snapshot with the current catalog product. A line
// whose product is gone keeps the snapshot it already carries.
func (s *Service) join(ctx context.Context, lines []cart.Line) ([]cart.Line, error) {
	if len(lines) == 0 {
		return lines, nil
	}
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range lines {
		if p, ok := byID[lines[i].ProductID]; ok {
			lines[i].Product = p
		}
	}
	return lines, nil
}
