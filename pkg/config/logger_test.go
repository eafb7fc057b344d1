package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestLogger_BuildLokiEntry(t *testing.T) {
	RegisterTestingT(t)

	logger := newLogger(zap.NewNop(), "todographql", "http://loki:3100")

	entry := logger.buildLokiEntry(context.Background(), zap.InfoLevel, "Todo created", []zap.Field{
		zap.String("todo_id", "abc"),
	})

	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream["service"]).To(Equal("todographql"))
	Expect(entry.Streams[0].Values[0]).To(HaveLen(2))

	var line map[string]interface{}
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line["message"]).To(Equal("Todo created"))
	Expect(line["todo_id"]).To(Equal("abc"))
	Expect(line["level"]).To(Equal("info"))
	Expect(line).ToNot(HaveKey("trace_id"))
}

func TestLogger_BuildLokiEntryCarriesTrace(t *testing.T) {
	RegisterTestingT(t)

	logger := newLogger(zap.NewNop(), "todographql", "http://loki:3100")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	entry := logger.buildLokiEntry(ctx, zap.WarnLevel, "GraphQL request returned errors", nil)

	var line map[string]interface{}
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line["trace_id"]).To(Equal("4bf92f3577b34da6a3ce929d0e0e4736"))
	Expect(line["span_id"]).To(Equal("00f067aa0ba902b7"))
}

func TestLogger_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan LokiLogEntry, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var entry LokiLogEntry
		json.Unmarshal(body, &entry)

		received <- entry
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := newLogger(zap.NewNop(), "todographql", server.URL)
	logger.InfoWithTrace(context.Background(), "hello")

	Eventually(received, 2*time.Second).Should(Receive())
}

func TestNewNopLogger(t *testing.T) {
	RegisterTestingT(t)

	logger := NewNopLogger()
	logger.ErrorWithTrace(context.Background(), "ignored")

	Expect(logger.Zap()).ToNot(BeNil())
	Expect(logger.lokiURL).To(BeEmpty())
}
