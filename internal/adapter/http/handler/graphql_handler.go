package handler

import (
	"context"
	"encoding/json"
	"net/http"

	gql "todographql/internal/adapter/graphql"
	. "todographql/internal/adapter/http/helper"
	"todographql/internal/core/model/request"
	"todographql/internal/core/telemetry"
	"todographql/pkg/config"
	. "todographql/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type GraphQLHandler struct {
	schema  graphql.Schema
	metrics *telemetry.AppMetrics
	Logger  *config.Logger
}

func NewGraphQLHandler(schema graphql.Schema, metrics *telemetry.AppMetrics, logger *config.Logger) *GraphQLHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &GraphQLHandler{
		schema:  schema,
		metrics: metrics,
		Logger:  logger,
	}
}

// Query serves POST /graphql with a JSON body.
func (h *GraphQLHandler) Query(c *gin.Context) {
	req, err := BindJSON[request.GraphQLRequest](c)
	if err != nil {
		SendBadRequestError(c, "body", "Invalid GraphQL request body")
		return
	}

	h.execute(c, req)
}

// QueryString serves GET /graphql with query, operationName and variables
// as URL parameters. Mutations are only accepted over POST.
func (h *GraphQLHandler) QueryString(c *gin.Context) {
	req := request.GraphQLRequest{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}

	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			SendBadRequestError(c, "variables", "variables must be a JSON object")
			return
		}
	}

	if gql.IsMutation(req) {
		h.Logger.WarnWithTrace(c.Request.Context(), "Rejected GraphQL mutation over GET",
			zap.String("operation", req.OperationName),
		)
		SendMethodNotAllowedError(c, http.MethodPost, "query", "mutations must be sent with POST")
		return
	}

	h.execute(c, req)
}

func (h *GraphQLHandler) execute(c *gin.Context, req request.GraphQLRequest) {
	if req.Query == "" {
		SendBadRequestError(c, "query", "query is required")
		return
	}

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.graphql.Execute", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	AddGraphQLAttributes(span, req.OperationName, len(req.Variables) > 0)

	result := gql.Execute(ctx, h.schema, req)

	if result.HasErrors() {
		AddSpanEvent(span, "graphql.errors", []attribute.KeyValue{
			attribute.Int("graphql.errors.count", len(result.Errors)),
		})
		h.recordErrors(ctx, req, result)
	}

	c.JSON(http.StatusOK, result)
}

func (h *GraphQLHandler) recordErrors(ctx context.Context, req request.GraphQLRequest, result *graphql.Result) {
	operation := req.OperationName
	if operation == "" {
		operation = "anonymous"
	}

	if h.metrics != nil {
		h.metrics.RecordGraphQLError(ctx, operation)
	}

	messages := make([]string, 0, len(result.Errors))
	for _, err := range result.Errors {
		messages = append(messages, err.Message)
	}

	h.Logger.WarnWithTrace(ctx, "GraphQL request returned errors",
		zap.String("operation", operation),
		zap.Strings("errors", messages),
	)
}
