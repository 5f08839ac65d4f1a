package otel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestInitTracer_Disabled(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracer(context.Background(), Config{ServiceName: "chat-relay", Output: &buf}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Zero(t, buf.Len())
}

func TestInitTracer_ExportsSpans(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	var buf bytes.Buffer
	shutdown, err := InitTracer(context.Background(), Config{
		Enabled:     true,
		ServiceName: "chat-relay-test",
		Version:     "v0.1.0",
		Environment: "test",
		Output:      &buf,
	}, zap.NewNop())
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "llm.chat")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "llm.chat")
	assert.Contains(t, buf.String(), "chat-relay-test")
	assert.Contains(t, buf.String(), "deployment.environment")
}
