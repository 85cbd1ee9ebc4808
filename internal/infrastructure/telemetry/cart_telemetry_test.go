package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				return sum
			}
		}
	}
	t.Fatalf("metric %s not found", name)
	return metricdata.Sum[int64]{}
}

func TestCartMetrics_RecordOperation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	m, err := NewCartMetrics(mp, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperation(ctx, "add", cart.OwnerScope(1), nil)
	m.RecordOperation(ctx, "add", cart.OwnerScope(2), nil)
	m.RecordOperation(ctx, "list", cart.GuestScope("s"), shared.ErrBackingStoreUnavailable)

	ops := collectSum(t, reader, "shop_cart_operations_total")
	require.Len(t, ops.DataPoints, 2)
	for _, dp := range ops.DataPoints {
		regime, _ := dp.Attributes.Value(attrRegime)
		switch regime.AsString() {
		case "owner":
			assert.Equal(t, int64(2), dp.Value)
		case "guest":
			assert.Equal(t, int64(1), dp.Value)
			outcome, _ := dp.Attributes.Value(attrOutcome)
			assert.Equal(t, "backing_store_unavailable", outcome.AsString())
		default:
			t.Fatalf("unexpected regime %q", regime.AsString())
		}
	}

	failures := collectSum(t, reader, "shop_cart_operation_failures_total")
	require.Len(t, failures.DataPoints, 1)
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(shared.ErrNotFound.WithMessage("Cart item not found")))
	assert.Equal(t, "invalid_input", Outcome(shared.ErrInvalidInput))
	assert.Equal(t, "backing_store_unavailable", Outcome(shared.ErrBackingStoreUnavailable.Wrap(errors.New("dial tcp"))))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

type failingStore struct{ cart.Store }

func (failingStore) Clear(context.Context) error { return shared.ErrBackingStoreUnavailable }

func TestTracingStore(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := NewTracerProviderWithExporter(Config{Enabled: true, SamplingRatio: 1}, exporter, zap.NewNop())
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx := context.Background()
	store := NewTracingStore(cart.NewLocalStore(cart.NewMemoryStorage()), cart.GuestScope("sess"))

	product, err := catalog.NewProduct(1, "Headphones", "", "₹99.00", "electronics", "")
	require.NoError(t, err)
	_, err = store.AddLine(ctx, product, 2)
	require.NoError(t, err)
	lines, err := store.ListLines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "cart.add_line", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.Int64("product.id", 1))
	assert.Contains(t, spans[0].Attributes, attrRegime.String("guest"))
	assert.Equal(t, "cart.list_lines", spans[1].Name)

	exporter.Reset()
	failing := NewTracingStore(failingStore{}, cart.OwnerScope(4))
	require.Error(t, failing.Clear(ctx))

	spans = exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attrRegime.String("owner"))
}

func TestProvidersDisabled(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))

	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NotNil(t, NewZapOTELCore(lp, "svc", 0))
}

func TestSampler_Descriptions(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", sampler(1).Description())
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}
