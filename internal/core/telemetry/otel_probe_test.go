package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestOTELProbe_ServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(zap.NewNop(), metrics)

	ctx, span := probe.StartServiceSpan(context.Background(), "todo", "CreateTodo", map[string]interface{}{
		"todo.title": "Buy milk",
	})
	probe.RecordServiceOperation(ctx, "todo", "CreateTodo", time.Millisecond, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	assert.Len(t, ended, 1)
	assert.Equal(t, "service.todo.CreateTodo", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.todoOperations.WithLabelValues("CreateTodo")))
}

func TestOTELProbe_RepositoryOperation(t *testing.T) {
	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(nil, metrics)

	ctx, span := probe.StartRepositorySpan(context.Background(), "Save", "todos", nil)
	probe.RecordRepositoryOperation(ctx, "Save", "todos", time.Millisecond, nil)
	span.End()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("Save", "todos")))
}

func TestToAttributes(t *testing.T) {
	attrs := toAttributes(map[string]interface{}{
		"s": "x",
		"i": 1,
		"b": true,
		"o": struct{}{},
	})

	assert.Len(t, attrs, 4)
}
