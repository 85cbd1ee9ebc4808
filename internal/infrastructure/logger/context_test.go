package logger

import (
	"context"
	"testing"

	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, log := WithRequestID(context.Background(), zap.New(core), "req-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Same(t, log, FromContext(ctx))

	log.Info("hello")
	entry := recorded.All()[0]
	assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
}

func TestContextLogger_OwnerAndSession(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	owned := cart.ContextWithOwner(WithContext(context.Background(), base), 42)
	L(owned).Info("owner line")

	guest := cart.ContextWithSession(WithContext(context.Background(), base), "sess-9")
	L(guest).Info("guest line")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "42", entries[0].ContextMap()["owner_id"])
	assert.NotContains(t, entries[0].ContextMap(), "session_id")
	assert.Equal(t, "sess-9", entries[1].ContextMap()["session_id"])
}

func TestContextLogger_TraceFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	traceID, _ := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	spanID, _ := trace.SpanIDFromHex("0123456789abcdef")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithLogger(ctx, zap.New(core)).With(zap.String("op", "add")).Info("traced")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
	assert.Equal(t, "add", fields["op"])
}

func TestTraceFields_NoSpan(t *testing.T) {
	assert.Empty(t, TraceFields(context.Background()))
}
