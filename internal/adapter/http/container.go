package http

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"todographql/internal/adapter/database/memory"
	"todographql/internal/adapter/database/mongodb"
	"todographql/internal/adapter/database/mongodb/repository"
	gql "todographql/internal/adapter/graphql"
	"todographql/internal/adapter/http/handler"
	"todographql/internal/adapter/http/validation"
	"todographql/internal/core/port"
	"todographql/internal/core/service"
	"todographql/internal/core/telemetry"
	"todographql/pkg/config"
)

type Container struct {
	// DB is nil when the memory store is selected.
	DB *mongodb.DB

	TodoRepo    port.TodoRepository
	TodoService port.TodoService
	Schema      graphql.Schema

	GraphQLHandler *handler.GraphQLHandler
	HealthHandler  *handler.HealthHandler
}

// NewContainer wires the store selected by cfg.Store into the GraphQL
// handlers. A Mongo store that cannot be reached is a startup error.
func NewContainer(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry, metrics *telemetry.AppMetrics, logger *config.Logger) (*Container, error) {
	container := &Container{}

	var pinger handler.Pinger

	switch cfg.Store {
	case config.StoreMongo:
		db, err := mongodb.NewDB(ctx, mongodb.Config{
			Host: cfg.MongoDB.Host,
			Port: cfg.MongoDB.Port,
			Name: cfg.MongoDB.Name,
			URI:  cfg.MongoDB.URI,
		}, logger.Zap())
		if err != nil {
			return nil, err
		}

		container.DB = db
		container.TodoRepo = repository.NewTodoRepository(db.Todos(), probe)
		pinger = db
	case config.StoreMemory:
		container.TodoRepo = memory.NewTodoRepository()
	default:
		return nil, fmt.Errorf("unknown todo store %q", cfg.Store)
	}

	todoSvc := service.NewTodoService(container.TodoRepo, validation.New(), probe, logger.Zap(), service.TodoServiceConfig{
		ExposeErrorDetails: cfg.ExposeErrorDetails,
	})

	schema, err := gql.NewSchema(todoSvc)
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}

	container.TodoService = todoSvc
	container.Schema = schema
	container.GraphQLHandler = handler.NewGraphQLHandler(schema, metrics, logger)
	container.HealthHandler = handler.NewHealthHandler(cfg.Store, pinger, logger)

	return container, nil
}

func (c *Container) Close(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}

	return c.DB.Close(ctx)
}
