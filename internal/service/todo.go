package service

import (
	"context"

	"github.com/deppfellow/todo-api/internal/model"
	"github.com/deppfellow/todo-api/internal/repository"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/sqlerr"
	"github.com/rs/zerolog"
)

type TodoService struct {
	server *server.Server
	repo   repository.TodoRepository
}

func NewTodoService(s *server.Server, repo repository.TodoRepository) *TodoService {
	return &TodoService{
		server: s,
		repo:   repo,
	}
}

// Create stores a todo. Any id the client sent is ignored.
func (s *TodoService) Create(ctx context.Context, content string) (*model.Todo, error) {
	todo, err := s.repo.Insert(ctx, content)
	if err != nil {
		return nil, s.storeError(ctx, err)
	}
	return todo, nil
}

func (s *TodoService) List(ctx context.Context) ([]model.Todo, error) {
	todos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.storeError(ctx, err)
	}
	return todos, nil
}

func (s *TodoService) Update(ctx context.Context, id int64, content string) error {
	if _, err := s.repo.Update(ctx, id, content); err != nil {
		return s.storeError(ctx, err)
	}
	return nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError(ctx, err)
	}
	return nil
}

// storeError logs a lost database connection before handing the error back;
// the HTTP layer maps it to a status. The request logger is preferred, the
// application logger covers calls made outside a request.
func (s *TodoService) storeError(ctx context.Context, err error) error {
	if sqlerr.ErrCode(err) != sqlerr.ConnectionFailure {
		return err
	}

	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled && s.server.Logger != nil {
		logger = s.server.Logger
	}
	logger.Error().Err(err).Msg("database connection failure")

	return err
}
