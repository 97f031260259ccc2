// Package model holds the Todo entity and the request/response shapes of
// the HTTP API.
package model

import "github.com/deppfellow/todo-api/internal/validation"

// Todo is the single persisted entity. ID is assigned by the store.
type Todo struct {
	ID      int64  `json:"id" db:"id"`
	Content string `json:"content" db:"content"`
}

// MessageResponse is the body returned by update and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

const (
	MessageUpdated = "Data Updated successfully"
	MessageDeleted = "Data deleted successfully"
)

// CreateTodoPayload is the body of POST /todos/. Content is a pointer so an
// absent field can be told apart from an empty string.
type CreateTodoPayload struct {
	Content *string `json:"content" validate:"required"`
}

func (p *CreateTodoPayload) Validate() error {
	return validation.Struct(p)
}

// ListTodosPayload carries nothing; GET /todos/ takes no input.
type ListTodosPayload struct{}

func (p *ListTodosPayload) Validate() error {
	return nil
}

// UpdateTodoPayload is PUT /todos/{id}.
type UpdateTodoPayload struct {
	ID      int64   `param:"id" json:"-"`
	Content *string `json:"content" validate:"required"`
}

func (p *UpdateTodoPayload) Validate() error {
	return validation.Struct(p)
}

// DeleteTodoPayload is DELETE /todos/{id}.
type DeleteTodoPayload struct {
	ID int64 `param:"id" json:"-"`
}

func (p *DeleteTodoPayload) Validate() error {
	return validation.Struct(p)
}
