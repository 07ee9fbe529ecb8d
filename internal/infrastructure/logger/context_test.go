package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func jsonLogger(buf *bytes.Buffer) *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(buf), zapcore.DebugLevel))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func spanContext(t *testing.T) (context.Context, trace.Span) {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp.Tracer("ledger-test").Start(context.Background(), "record-view")
}

func TestFromContext(t *testing.T) {
	t.Run("missing logger falls back to nop", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		assert.NotPanics(t, func() { l.Info("dropped") })
	})

	t.Run("wrong type falls back to nop", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		assert.NotNil(t, FromContext(ctx))
	})

	t.Run("stored logger is returned", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)
		base := zap.New(core)
		assert.Same(t, base, FromContext(WithContext(context.Background(), base)))
	})
}

func TestCorrelationSetters(t *testing.T) {
	tests := []struct {
		name  string
		set   func(context.Context, *zap.Logger, string) (context.Context, *zap.Logger)
		get   func(context.Context) string
		field string
	}{
		{"request id", WithRequestID, GetRequestID, "request_id"},
		{"user id", WithUserID, GetUserID, "user_id"},
		{"event id", WithEventID, GetEventID, "event_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)

			ctx, enriched := tt.set(context.Background(), zap.New(core), "abc-123")
			assert.Equal(t, "abc-123", tt.get(ctx))
			assert.Empty(t, tt.get(context.Background()))

			enriched.Info("hello")
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, "abc-123", logs.All()[0].ContextMap()[tt.field])

			// the enriched logger is also stored in the context
			assert.Same(t, enriched, FromContext(ctx))
		})
	}
}

func TestCorrelationSetters_Chain(t *testing.T) {
	base := zap.NewNop()
	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithUserID(ctx, base, "user-1")
	ctx, _ = WithEventID(ctx, base, "evt-1")
	ctx, _ = WithRequestID(ctx, base, "req-2")

	assert.Equal(t, "req-2", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "evt-1", GetEventID(ctx))
}

func TestTraceIDs(t *testing.T) {
	t.Run("no span", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
		assert.Empty(t, GetSpanID(context.Background()))
	})

	t.Run("invalid span context", func(t *testing.T) {
		ctx := trace.ContextWithSpanContext(context.Background(), trace.SpanContext{})
		assert.Empty(t, GetTraceID(ctx))
		assert.Empty(t, GetSpanID(ctx))
	})

	t.Run("recording span", func(t *testing.T) {
		ctx, span := spanContext(t)
		defer span.End()

		assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
		assert.Equal(t, span.SpanContext().SpanID().String(), GetSpanID(ctx))
	})
}

func TestWithTraceContext(t *testing.T) {
	t.Run("no span returns same logger", func(t *testing.T) {
		base := zap.NewNop()
		assert.Same(t, base, WithTraceContext(context.Background(), base))
	})

	t.Run("span adds ids", func(t *testing.T) {
		ctx, span := spanContext(t)
		defer span.End()

		var buf bytes.Buffer
		WithTraceContext(ctx, jsonLogger(&buf)).Info("traced")

		entry := decodeLine(t, &buf)
		assert.Equal(t, GetTraceID(ctx), entry["trace_id"])
		assert.Equal(t, GetSpanID(ctx), entry["span_id"])
	})
}

func TestContextLogger_EnrichesEntries(t *testing.T) {
	var buf bytes.Buffer
	base := jsonLogger(&buf)

	ctx, span := spanContext(t)
	defer span.End()
	ctx, _ = WithRequestID(ctx, base, "req-123")
	ctx, _ = WithUserID(ctx, base, "user-789")
	ctx, _ = WithEventID(ctx, base, "evt-42")
	ctx = WithContext(ctx, base)

	L(ctx).Info("view recorded", zap.String("file_id", "f-1"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "view recorded", entry["msg"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "user-789", entry["user_id"])
	assert.Equal(t, "evt-42", entry["event_id"])
	assert.Equal(t, "f-1", entry["file_id"])
	assert.Equal(t, GetTraceID(ctx), entry["trace_id"])
}

func TestContextLogger_OmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	L(WithContext(context.Background(), jsonLogger(&buf))).Warn("bare")

	entry := decodeLine(t, &buf)
	for _, key := range []string{"request_id", "user_id", "event_id", "trace_id", "span_id"} {
		assert.NotContains(t, entry, key)
	}
}

func TestContextLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx, _ := WithUserID(context.Background(), zap.NewNop(), "u-1")

	cl := WithLogger(ctx, zap.New(core)).With(zap.String("component", "ledger"))
	cl.Debug("d")
	cl.Info("i")
	cl.Warn("w")
	cl.Error("e")

	require.Equal(t, 4, logs.Len())
	for _, e := range logs.All() {
		assert.Equal(t, "ledger", e.ContextMap()["component"])
		assert.Equal(t, "u-1", e.ContextMap()["user_id"])
	}
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() {
		cl.Info("nothing")
		_ = cl.Zap()
		cl.Sugar().Infow("nothing", "k", "v")
	})
}
