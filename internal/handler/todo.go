package handler

import (
	"github.com/deppfellow/todo-api/internal/model"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/service"
	"github.com/labstack/echo/v4"
)

type TodoHandler struct {
	Handler
	todoService *service.TodoService
}

func NewTodoHandler(s *server.Server, todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{
		Handler:     NewHandler(s),
		todoService: todoService,
	}
}

func (h *TodoHandler) CreateTodo(c echo.Context, payload *model.CreateTodoPayload) (*model.Todo, error) {
	return h.todoService.Create(c.Request().Context(), *payload.Content)
}

func (h *TodoHandler) ListTodos(c echo.Context, _ *model.ListTodosPayload) ([]model.Todo, error) {
	return h.todoService.List(c.Request().Context())
}

func (h *TodoHandler) UpdateTodo(c echo.Context, payload *model.UpdateTodoPayload) (*model.MessageResponse, error) {
	if err := h.todoService.Update(c.Request().Context(), payload.ID, *payload.Content); err != nil {
		return nil, err
	}
	return &model.MessageResponse{Message: model.MessageUpdated}, nil
}

func (h *TodoHandler) DeleteTodo(c echo.Context, payload *model.DeleteTodoPayload) (*model.MessageResponse, error) {
	if err := h.todoService.Delete(c.Request().Context(), payload.ID); err != nil {
		return nil, err
	}
	return &model.MessageResponse{Message: model.MessageDeleted}, nil
}
