package repository

import (
	"context"

	"github.com/deppfellow/todo-api/internal/database"
	"github.com/deppfellow/todo-api/internal/model"
)

const todoTable = "todo"

// TodoRepository persists todos. Lookups and writes against an unknown id
// return an error for which sqlerr.IsNotFound reports true.
type TodoRepository interface {
	// Insert stores a new todo and returns it with its assigned id.
	Insert(ctx context.Context, content string) (*model.Todo, error)
	// ListAll returns every todo in no particular order. It never returns a
	// nil slice.
	ListAll(ctx context.Context) ([]model.Todo, error)
	GetByID(ctx context.Context, id int64) (*model.Todo, error)
	// Update replaces the content of an existing todo.
	Update(ctx context.Context, id int64, content string) (*model.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// NewTodoRepository picks the implementation matching the database driver.
func NewTodoRepository(db *database.Database) TodoRepository {
	if db.Driver == database.DriverSQLite {
		return &sqliteTodoRepository{db: db.SQL}
	}
	return &postgresTodoRepository{pool: db.Pool}
}
