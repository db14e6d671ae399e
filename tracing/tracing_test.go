package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_WithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	tracer, shutdown, err := InitTracing(ctx, "smartsaver-test", "")
	require.NoError(t, err)

	_, span := tracer.Start(ctx, "simulate_flex")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}
