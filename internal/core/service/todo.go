package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"todographql/internal/core/domain"
	"todographql/internal/core/model/request"
	"todographql/internal/core/model/response"
	"todographql/internal/core/port"
	tel "todographql/internal/core/telemetry"
)

const (
	serviceName = "todo"

	MessageCreated  = "Todo created successfully"
	MessageUpdated  = "Todo updated successfully"
	MessageDeleted  = "Todo deleted successfully"
	MessageNotFound = "Todo not found"

	errCreating = "Error creating todo"
	errUpdating = "Error updating todo"
	errDeleting = "Error deleting todo"
)

type TodoServiceConfig struct {
	// ExposeErrorDetails embeds internal error text in mutation messages.
	ExposeErrorDetails bool
}

type TodoService struct {
	repo      port.TodoRepository
	validator port.Validator
	telemetry port.Telemetry
	logger    *zap.Logger
	config    TodoServiceConfig
}

func NewTodoService(repo port.TodoRepository, validator port.Validator, telemetry port.Telemetry, logger *zap.Logger, config TodoServiceConfig) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &TodoService{
		repo:      repo,
		validator: validator,
		telemetry: telemetry,
		logger:    logger,
		config:    config,
	}
}

// ListTodos never fails: a store error yields an empty list.
func (ts *TodoService) ListTodos(ctx context.Context) []domain.Todo {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "ListTodos", nil)
	defer span.End()

	startTime := time.Now()

	todos, err := ts.repo.GetAll(ctx)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "ListTodos", time.Since(startTime), err)

	if err != nil {
		ts.logger.Error("Failed to list todos", zap.Error(err))
		return []domain.Todo{}
	}

	span.SetAttributes(map[string]interface{}{"todo.count": len(todos)})

	return todos
}

// GetTodo returns nil for a missing or malformed id and for any store error.
func (ts *TodoService) GetTodo(ctx context.Context, id string) *domain.Todo {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "GetTodo", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()

	todo, err := ts.repo.GetByID(ctx, id)

	if errors.Is(err, domain.ErrTodoNotFound) {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, "GetTodo", time.Since(startTime), nil)
		return nil
	}

	ts.telemetry.RecordServiceOperation(ctx, serviceName, "GetTodo", time.Since(startTime), err)

	if err != nil {
		ts.logger.Error("Failed to get todo", zap.String("todo_id", id), zap.Error(err))
		return nil
	}

	return &todo
}

func (ts *TodoService) CreateTodo(ctx context.Context, req request.CreateTodoRequest) response.TodoPayload {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "CreateTodo", map[string]interface{}{
		"todo.title": req.Title,
	})
	defer span.End()

	startTime := time.Now()

	if err := ts.validator.ValidateStruct(req); err != nil {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, "CreateTodo", time.Since(startTime), err)
		return response.TodoPayload{Message: ts.validationMessage(errCreating, err)}
	}

	todo := domain.NewTodo(req.Title, req.Description)

	ok, err := ts.repo.Save(ctx, &todo)
	if err == nil && !ok {
		err = domain.ErrTodoNotModified
	}

	ts.telemetry.RecordServiceOperation(ctx, serviceName, "CreateTodo", time.Since(startTime), err)

	if err != nil {
		ts.logger.Error("Error saving todo", zap.String("title", req.Title), zap.Error(err))
		ts.telemetry.RecordError(ctx, "CreateTodo", err, nil)
		return response.TodoPayload{Message: ts.failureMessage(errCreating, err)}
	}

	return response.TodoPayload{Todo: &todo, Success: true, Message: MessageCreated}
}

// UpdateTodo validates and applies only the supplied fields; the stored
// document is still replaced as a whole.
func (ts *TodoService) UpdateTodo(ctx context.Context, req request.UpdateTodoRequest) response.TodoPayload {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "UpdateTodo", map[string]interface{}{
		"todo.id":          req.ID,
		"todo.patch_empty": req.Patch.IsEmpty(),
	})
	defer span.End()

	startTime := time.Now()

	todo, err := ts.repo.GetByID(ctx, req.ID)
	if errors.Is(err, domain.ErrTodoNotFound) {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, "UpdateTodo", time.Since(startTime), nil)
		return response.TodoPayload{Message: MessageNotFound}
	}

	if err != nil {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, "UpdateTodo", time.Since(startTime), err)
		ts.logger.Error("Error loading todo for update", zap.String("todo_id", req.ID), zap.Error(err))
		return response.TodoPayload{Message: ts.failureMessage(errUpdating, err)}
	}

	if err := ts.validator.ValidateStruct(req.Patch); err != nil {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, "UpdateTodo", time.Since(startTime), err)
		return response.TodoPayload{Message: ts.validationMessage(errUpdating, err)}
	}

	todo.Apply(req.Patch)

	ok, err := ts.repo.Save(ctx, &todo)
	if err == nil && !ok {
		err = domain.ErrTodoNotModified
	}

	ts.telemetry.RecordServiceOperation(ctx, serviceName, "UpdateTodo", time.Since(startTime), err)

	if err != nil {
		ts.logger.Error("Error saving todo", zap.String("todo_id", req.ID), zap.Error(err))
		ts.telemetry.RecordError(ctx, "UpdateTodo", err, map[string]interface{}{"todo.id": req.ID})
		return response.TodoPayload{Message: ts.failureMessage(errUpdating, err)}
	}

	return response.TodoPayload{Todo: &todo, Success: true, Message: MessageUpdated}
}

func (ts *TodoService) DeleteTodo(ctx context.Context, id string) response.DeletePayload {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "DeleteTodo", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()

	todo, err := ts.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrTodoNotFound) {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, "DeleteTodo", time.Since(startTime), nil)
		return response.DeletePayload{Message: MessageNotFound}
	}

	if err == nil {
		var ok bool
		ok, err = ts.repo.Delete(ctx, &todo)

		if err == nil && !ok {
			ts.telemetry.RecordServiceOperation(ctx, serviceName, "DeleteTodo", time.Since(startTime), nil)
			return response.DeletePayload{Message: MessageNotFound}
		}
	}

	ts.telemetry.RecordServiceOperation(ctx, serviceName, "DeleteTodo", time.Since(startTime), err)

	if err != nil {
		ts.logger.Error("Error deleting todo", zap.String("todo_id", id), zap.Error(err))
		ts.telemetry.RecordError(ctx, "DeleteTodo", err, map[string]interface{}{"todo.id": id})
		return response.DeletePayload{Message: ts.failureMessage(errDeleting, err)}
	}

	return response.DeletePayload{Success: true, Message: MessageDeleted}
}

func (ts *TodoService) failureMessage(prefix string, err error) string {
	if !ts.config.ExposeErrorDetails {
		return prefix
	}

	return fmt.Sprintf("%s: %s", prefix, err.Error())
}

// validationMessage always carries the field errors.
func (ts *TodoService) validationMessage(prefix string, err error) string {
	fieldErrors := ts.validator.FormatValidationErrors(err)

	if len(fieldErrors) == 0 {
		return ts.failureMessage(prefix, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Message)
	}

	return fmt.Sprintf("%s: %s", prefix, strings.Join(messages, "; "))
}
