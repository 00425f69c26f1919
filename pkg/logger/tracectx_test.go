package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestAttrsFromCtxWithSpan(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	attrs := AttrsFromCtx(ctx)
	require.Len(t, attrs, 2)
	require.Equal(t, "trace_id", attrs[0].Key)
	require.Equal(t, traceID.String(), attrs[0].Value.String())
	require.Equal(t, "span_id", attrs[1].Key)
	require.Equal(t, spanID.String(), attrs[1].Value.String())
}

func TestAttrsFromCtxWithoutSpan(t *testing.T) {
	require.Nil(t, AttrsFromCtx(context.Background()))
}
