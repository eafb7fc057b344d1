package domain

import "errors"

var (
	ErrTodoNotFound     = errors.New("todo not found")
	ErrTodoNotPersisted = errors.New("todo has no id")
	ErrTodoNotModified  = errors.New("todo was not modified")
)
