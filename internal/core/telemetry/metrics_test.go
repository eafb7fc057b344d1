package telemetry

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAppMetrics_Counters(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordTodoOperation(ctx, "CreateTodo")
	metrics.RecordTodoOperation(ctx, "CreateTodo")
	metrics.RecordDatabaseOperation(ctx, "Save", "todos")
	metrics.RecordRateLimitHit(ctx, "/graphql", "ip")
	metrics.RecordRequest(ctx, "POST", "/graphql", "200", 10*time.Millisecond)

	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("CreateTodo"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("Save", "todos"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.rateLimitHits.WithLabelValues("/graphql", "ip"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("POST", "/graphql", "200"))).To(Equal(1.0))
}

func TestAppMetrics_ActiveConnections(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.IncrementActiveConnections(ctx)
	metrics.IncrementActiveConnections(ctx)
	metrics.DecrementActiveConnections(ctx)

	Expect(testutil.ToFloat64(metrics.activeConnections)).To(Equal(1.0))
}

func TestNoOpProbe(t *testing.T) {
	RegisterTestingT(t)

	probe := NewNoOpProbe()
	ctx := context.Background()

	spanCtx, span := probe.StartRepositorySpan(ctx, "Save", "todo", nil)
	span.SetStatus("ok", "")
	span.End()

	Expect(spanCtx).To(Equal(ctx))
}
