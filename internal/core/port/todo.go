package port

import (
	"context"

	"todographql/internal/core/domain"
	"todographql/internal/core/model/request"
	"todographql/internal/core/model/response"
)

type TodoRepository interface {
	GetAll(ctx context.Context) ([]domain.Todo, error)
	GetByID(ctx context.Context, id string) (domain.Todo, error)
	Save(ctx context.Context, todo *domain.Todo) (bool, error)
	Delete(ctx context.Context, todo *domain.Todo) (bool, error)
}

type TodoService interface {
	ListTodos(ctx context.Context) []domain.Todo
	GetTodo(ctx context.Context, id string) *domain.Todo
	CreateTodo(ctx context.Context, req request.CreateTodoRequest) response.TodoPayload
	UpdateTodo(ctx context.Context, req request.UpdateTodoRequest) response.TodoPayload
	DeleteTodo(ctx context.Context, id string) response.DeletePayload
}
