package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestResolve(t *testing.T) {
	tc := Resolve(context.Background(), "req-1", "trace-1")
	assert.Equal(t, "req-1", tc.RequestID)
	assert.Equal(t, "trace-1", tc.TraceID)

	tc = Resolve(context.Background(), "", "")
	assert.NotEmpty(t, tc.RequestID)
	assert.NotEmpty(t, tc.TraceID)
	assert.NotEqual(t, tc.RequestID, tc.TraceID)
}

func TestResolve_SpanWins(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	tc := Resolve(ctx, "", "from-header")
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", tc.TraceID)
}

func TestTraceRoundTrip(t *testing.T) {
	assert.Nil(t, GetTrace(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := WithTrace(context.Background(), &TraceContext{TraceID: "t", RequestID: "r"})
	assert.Equal(t, "r", GetRequestID(ctx))
}
