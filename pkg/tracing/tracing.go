package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "todographql"

// AddSpanError marks a span as failed
func AddSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent records a named event with attrs on span
func AddSpanEvent(span trace.Span, name string, attrs []attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AddGraphQLAttributes tags a span with the operation being executed
func AddGraphQLAttributes(span trace.Span, operationName string, hasVariables bool) {
	span.SetAttributes(
		attribute.String("graphql.operation.name", operationName),
		attribute.Bool("graphql.variables.present", hasVariables),
	)
}

func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}

func CreateChildSpan(ctx context.Context, name string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// SpanWrapper runs fn inside a child span and records its error
func SpanWrapper(ctx context.Context, name string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := CreateChildSpan(ctx, name, attrs)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		AddSpanError(span, err)
	}

	return err
}

// DatabaseSpanWrapper wraps a store call that is not covered by otelmongo
func DatabaseSpanWrapper(ctx context.Context, collection, operation string, fn func(context.Context) error) error {
	attrs := []attribute.KeyValue{
		attribute.String("db.collection", collection),
		attribute.String("db.operation", operation),
		attribute.String("db.system", "mongodb"),
	}

	return SpanWrapper(ctx, fmt.Sprintf("db.%s.%s", collection, operation), attrs, fn)
}
