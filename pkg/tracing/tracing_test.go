package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)

	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	return recorder
}

func TestSpanWrapper(t *testing.T) {
	recorder := withRecorder(t)

	err := SpanWrapper(context.Background(), "graphql.execute", nil, func(ctx context.Context) error {
		assert.NotEmpty(t, GetTraceID(ctx))
		assert.NotEmpty(t, GetSpanID(ctx))
		return errors.New("boom")
	})

	assert.EqualError(t, err, "boom")

	spans := recorder.Ended()
	assert.Len(t, spans, 1)
	assert.Equal(t, "graphql.execute", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestDatabaseSpanWrapper(t *testing.T) {
	recorder := withRecorder(t)

	err := DatabaseSpanWrapper(context.Background(), "todos", "ping", func(ctx context.Context) error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "db.todos.ping", recorder.Ended()[0].Name())
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
	assert.Equal(t, "", GetSpanID(context.Background()))
}

func TestAddSpanEvent(t *testing.T) {
	recorder := withRecorder(t)

	_, span := CreateChildSpan(context.Background(), "handler.graphql.Execute", nil)
	AddSpanEvent(span, "graphql.errors", []attribute.KeyValue{attribute.Int("graphql.errors.count", 2)})
	span.End()

	events := recorder.Ended()[0].Events()
	assert.Len(t, events, 1)
	assert.Equal(t, "graphql.errors", events[0].Name)
	assert.Contains(t, events[0].Attributes, attribute.Int("graphql.errors.count", 2))
}
