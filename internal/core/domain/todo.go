package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Todo struct {
	ID          primitive.ObjectID
	Title       string `validate:"required,notblank,max=255"`
	Description string `validate:"max=1000"`
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoPatch carries the fields of an update. A nil field was not supplied and
// keeps its stored value; only supplied fields are validated.
type TodoPatch struct {
	Title       *string `validate:"omitnil,notblank,max=255"`
	Description *string `validate:"omitnil,max=1000"`
	Completed   *bool
}

// Now returns the current UTC time truncated to the store's millisecond precision.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewTodo builds a Todo that has not been persisted yet.
func NewTodo(title, description string) Todo {
	now := Now()

	return Todo{
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (t *Todo) IsPersisted() bool {
	return !t.ID.IsZero()
}

// IDString is the boundary representation of the identifier.
func (t *Todo) IDString() string {
	if t.ID.IsZero() {
		return ""
	}

	return t.ID.Hex()
}

// Touch refreshes UpdatedAt. The new value is always strictly after the old one.
func (t *Todo) Touch() {
	now := Now()

	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Millisecond)
	}

	t.UpdatedAt = now
}

func (t *Todo) Apply(patch TodoPatch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}

	if patch.Description != nil {
		t.Description = *patch.Description
	}

	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":          t.IDString(),
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"createdAt":   t.CreatedAt,
		"updatedAt":   t.UpdatedAt,
	}
}

// ParseID converts a boundary identifier into the store identifier.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return primitive.NilObjectID, ErrTodoNotFound
	}

	return oid, nil
}
