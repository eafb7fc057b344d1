package response

import "todographql/internal/core/domain"

// TodoPayload is the envelope returned by createTodo and updateTodo.
type TodoPayload struct {
	Todo    *domain.Todo `json:"todo"`
	Success bool         `json:"success"`
	Message string       `json:"message"`
}

// DeletePayload is the envelope returned by deleteTodo.
type DeletePayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (p TodoPayload) ToMap() map[string]interface{} {
	var todo interface{}

	if p.Todo != nil {
		todo = p.Todo.ToMap()
	}

	return map[string]interface{}{
		"todo":    todo,
		"success": p.Success,
		"message": p.Message,
	}
}

func (p DeletePayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"success": p.Success,
		"message": p.Message,
	}
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
