package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestNewContainer_WithoutExporter(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()

	container, err := NewContainer(ctx, Config{
		ServiceName:    "todographql",
		ServiceVersion: "test",
		Environment:    "test",
		MetricsPort:    "0",
	}, zap.NewNop())

	Expect(err).ToNot(HaveOccurred())
	Expect(container.AppMetrics).ToNot(BeNil())
	Expect(container.NewTelemetryProbe()).ToNot(BeNil())

	container.AppMetrics.RecordTodoOperation(ctx, "CreateTodo")

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	container.MetricsServer.Handler.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("todo_operations_total"))
	Expect(rr.Body.String()).To(ContainSubstring("go_goroutines"))

	Expect(container.Shutdown(ctx)).To(Succeed())
}
