package telemetry

import (
	"context"
	"errors"

	"github.com/grafana/pyroscope-go"
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	attrOperation = attribute.Key("cart.operation")
	attrRegime    = attribute.Key("cart.regime")
	attrOutcome   = attribute.Key("cart.outcome")
)

// CartMetrics counts cart operations by operation, regime and outcome.
type CartMetrics struct {
	operations *Counter
	failures   *Counter
	logger     *zap.Logger
}

// NewCartMetrics creates the cart instruments on the provider's meter.
func NewCartMetrics(mp *MeterProvider, logger *zap.Logger) (*CartMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	meter := mp.Meter(TracerName)

	operations, err := NewCounter(meter, "shop_cart_operations_total", "Cart operations handled", "{operation}")
	if err != nil {
		return nil, err
	}
	failures, err := NewCounter(meter, "shop_cart_operation_failures_total", "Cart operations that returned an error", "{operation}")
	if err != nil {
		return nil, err
	}
	return &CartMetrics{operations: operations, failures: failures, logger: logger}, nil
}

// RecordOperation counts one cart operation.
func (m *CartMetrics) RecordOperation(ctx context.Context, op string, scope cart.Scope, err error) {
	outcome := Outcome(err)
	attrs := []attribute.KeyValue{
		attrOperation.String(op),
		attrRegime.String(Regime(scope)),
		attrOutcome.String(outcome),
	}
	m.operations.Inc(ctx, attrs...)
	if err != nil {
		m.failures.Inc(ctx, attrs...)
	}
	if outcome == "backing_store_unavailable" {
		m.logger.Warn("cart backing store unavailable",
			zap.String("operation", op),
			zap.String("scope", scope.Key()),
			zap.Error(err))
	}
}

// Regime names the storage regime of a scope.
func Regime(scope cart.Scope) string {
	if scope.Anonymous() {
		return "guest"
	}
	return "owner"
}

// Outcome maps an operation error to a low-cardinality label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case shared.ErrNotFound.Code:
			return "not_found"
		case shared.ErrInvalidInput.Code:
			return "invalid_input"
		case shared.ErrBackingStoreUnavailable.Code:
			return "backing_store_unavailable"
		}
	}
	return "error"
}

// Profile label keys.
const (
	ProfileLabelOperation = "cart_operation"
	ProfileLabelRegime    = "cart_regime"
)

// Profiled runs fn with pprof labels naming the cart operation and the
// scope's regime.
func Profiled(ctx context.Context, op string, scope cart.Scope, fn func(context.Context)) {
	pyroscope.TagWrapper(ctx, pyroscope.Labels(
		ProfileLabelOperation, op,
		ProfileLabelRegime, Regime(scope),
	), fn)
}

// TracingStore wraps a cart.Store so every operation runs in its own span
// under the cart profile labels.
type TracingStore struct {
	next  cart.Store
	scope cart.Scope
}

// NewTracingStore decorates next, tagging spans with the scope's regime.
func NewTracingStore(next cart.Store, scope cart.Scope) *TracingStore {
	return &TracingStore{next: next, scope: scope}
}

func (s *TracingStore) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs, attrRegime.String(Regime(s.scope)))
	ctx, span := StartSpan(ctx, "cart."+name, WithAttributes(attrs...))
	return ctx, func(err error) { End(span, err) }
}

func (s *TracingStore) AddLine(ctx context.Context, product *catalog.Product, quantity int) (line *cart.Line, err error) {
	var productID int64
	if product != nil {
		productID = product.ID
	}
	ctx, end := s.start(ctx, "add_line",
		attribute.Int64("product.id", productID),
		attribute.Int("cart.quantity", quantity))
	defer func() { end(err) }()
	Profiled(ctx, "add_line", s.scope, func(ctx context.Context) {
		line, err = s.next.AddLine(ctx, product, quantity)
	})
	return line, err
}

func (s *TracingStore) SetQuantity(ctx context.Context, lineID int64, quantity int) (line *cart.Line, err error) {
	ctx, end := s.start(ctx, "set_quantity",
		attribute.Int64("cart.line_id", lineID),
		attribute.Int("cart.quantity", quantity))
	defer func() { end(err) }()
	Profiled(ctx, "set_quantity", s.scope, func(ctx context.Context) {
		line, err = s.next.SetQuantity(ctx, lineID, quantity)
	})
	return line, err
}

func (s *TracingStore) RemoveLine(ctx context.Context, lineID int64) (removed bool, err error) {
	ctx, end := s.start(ctx, "remove_line", attribute.Int64("cart.line_id", lineID))
	defer func() { end(err) }()
	Profiled(ctx, "remove_line", s.scope, func(ctx context.Context) {
		removed, err = s.next.RemoveLine(ctx, lineID)
	})
	return removed, err
}

func (s *TracingStore) Clear(ctx context.Context) (err error) {
	ctx, end := s.start(ctx, "clear")
	defer func() { end(err) }()
	Profiled(ctx, "clear", s.scope, func(ctx context.Context) {
		err = s.next.Clear(ctx)
	})
	return err
}

func (s *TracingStore) ListLines(ctx context.Context) (lines []cart.Line, err error) {
	ctx, end := s.start(ctx, "list_lines")
	defer func() { end(err) }()
	Profiled(ctx, "list_lines", s.scope, func(ctx context.Context) {
		lines, err = s.next.ListLines(ctx)
	})
	return lines, err
}

var _ cart.Store = (*TracingStore)(nil)
