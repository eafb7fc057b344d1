package request

import "todographql/internal/core/domain"

type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

type UpdateTodoRequest struct {
	ID    string           `json:"id" validate:"required"`
	Patch domain.TodoPatch `json:"-"`
}

// GraphQLRequest is the body of a POST /graphql call.
type GraphQLRequest struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName,omitempty" form:"operationName"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}
