package handler

import (
	"net/http"

	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
)

type RootHandler struct {
	Handler
}

func NewRootHandler(s *server.Server) *RootHandler {
	return &RootHandler{
		Handler: NewHandler(s),
	}
}

// Hello is the liveness probe at GET /. It never touches the database.
func (h *RootHandler) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"Hello": "World"})
}
