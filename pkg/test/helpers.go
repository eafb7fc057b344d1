package test

import (
	"context"
	"testing"

	"todographql/internal/adapter/database/memory"
	"todographql/internal/core/domain"
	"todographql/internal/core/port"
)

// InitTestRepository returns an empty in-memory todo repository.
func InitTestRepository() port.TodoRepository {
	return memory.NewTodoRepository()
}

// SeedTodo stores a todo built from title and description and returns it.
func SeedTodo(t *testing.T, repo port.TodoRepository, title, description string) domain.Todo {
	t.Helper()

	todo := domain.NewTodo(title, description)

	ok, err := repo.Save(context.Background(), &todo)
	if err != nil || !ok {
		t.Fatalf("failed to seed todo %q: ok=%v err=%v", title, ok, err)
	}

	return todo
}
