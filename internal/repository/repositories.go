package repository

import (
	"github.com/deppfellow/todo-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Todo TodoRepository
}

// NewRepositories builds the repositories on top of s.DB.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Todo: NewTodoRepository(s.DB),
	}
}
