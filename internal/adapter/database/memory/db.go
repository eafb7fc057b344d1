package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"todographql/internal/core/domain"
	"todographql/internal/core/port"
)

// todoRepository keeps todos in process memory with the same semantics as the
// MongoDB repository. It backs tests and TODO_STORE=memory runs.
type todoRepository struct {
	mu    sync.RWMutex
	todos map[primitive.ObjectID]domain.Todo
}

func NewTodoRepository() port.TodoRepository {
	return &todoRepository{
		todos: make(map[primitive.ObjectID]domain.Todo),
	}
}

func (r *todoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return []domain.Todo{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]domain.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo)
	}

	sort.SliceStable(todos, func(i, j int) bool {
		if todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].ID.Hex() > todos[j].ID.Hex()
		}

		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})

	return todos, nil
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return domain.Todo{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.todos[oid]
	if !ok {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return todo, nil
}

func (r *todoRepository) Save(ctx context.Context, todo *domain.Todo) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if todo.IsPersisted() {
		if _, ok := r.todos[todo.ID]; ok {
			todo.Touch()
			r.todos[todo.ID] = *todo

			return true, nil
		}
	} else {
		todo.ID = primitive.NewObjectID()
	}

	r.todos[todo.ID] = *todo

	return true, nil
}

func (r *todoRepository) Delete(ctx context.Context, todo *domain.Todo) (bool, error) {
	if !todo.IsPersisted() {
		return false, domain.ErrTodoNotPersisted
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[todo.ID]; !ok {
		return false, nil
	}

	delete(r.todos, todo.ID)

	return true, nil
}
