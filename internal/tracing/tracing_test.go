package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Version: "test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_InstallsPropagators(t *testing.T) {
	_, err := Setup(context.Background(), Config{})
	require.NoError(t, err)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestTracer_ReturnsNonNil(t *testing.T) {
	oldTracer := tracer
	tracer = nil
	defer func() { tracer = oldTracer }()

	assert.NotNil(t, Tracer())
}

func TestStartSpan_WithOptions(t *testing.T) {
	ctx := context.Background()
	newCtx, span := StartSpan(ctx, "catalog.search",
		WithAttributes(
			attribute.String("query", "zelda"),
			attribute.Int("page_size", 5),
		),
	)

	assert.NotNil(t, span)
	assert.NotEqual(t, ctx, newCtx)
	span.End()
}

func TestSpanHelpers_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, assert.AnError)
		SetSpanOK(nil)
		AddSpanAttributes(nil, attribute.Bool("cached", true))
	})

	_, span := StartSpan(context.Background(), "sheet.get")
	defer span.End()
	assert.NotPanics(t, func() {
		RecordError(span, nil)
		RecordError(span, assert.AnError)
		SetSpanOK(span)
		AddSpanAttributes(span, attribute.Int64("game_id", 1))
	})
}
