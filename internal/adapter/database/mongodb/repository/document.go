package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"todographql/internal/core/domain"
)

// TodoDocument is the stored shape of a todo. The collection is not
// schema-enforced, so every field may be missing when decoding.
type TodoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       *string            `bson:"title"`
	Description *string            `bson:"description"`
	Completed   *bool              `bson:"completed"`
	CreatedAt   *time.Time         `bson:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at"`
}

func ToDocument(todo domain.Todo) TodoDocument {
	createdAt := todo.CreatedAt.UTC()
	updatedAt := todo.UpdatedAt.UTC()

	return TodoDocument{
		ID:          todo.ID,
		Title:       &todo.Title,
		Description: &todo.Description,
		Completed:   &todo.Completed,
		CreatedAt:   &createdAt,
		UpdatedAt:   &updatedAt,
	}
}

// FromDocument defaults missing text fields to "", completed to false, a missing
// created_at to updated_at and a missing updated_at to created_at.
func FromDocument(doc TodoDocument) domain.Todo {
	todo := domain.Todo{ID: doc.ID}

	if doc.Title != nil {
		todo.Title = *doc.Title
	}

	if doc.Description != nil {
		todo.Description = *doc.Description
	}

	if doc.Completed != nil {
		todo.Completed = *doc.Completed
	}

	if doc.CreatedAt != nil {
		todo.CreatedAt = doc.CreatedAt.UTC()
	}

	if doc.UpdatedAt != nil {
		todo.UpdatedAt = doc.UpdatedAt.UTC()
	}

	switch {
	case todo.CreatedAt.IsZero() && !todo.UpdatedAt.IsZero():
		todo.CreatedAt = todo.UpdatedAt
	case todo.UpdatedAt.IsZero() && !todo.CreatedAt.IsZero():
		todo.UpdatedAt = todo.CreatedAt
	}

	return todo
}
