// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/todo-api/internal/handler"
	"github.com/deppfellow/todo-api/internal/middleware"
	"github.com/deppfellow/todo-api/internal/model"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware chain, the
// error handler and every route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id and the New Relic transaction must exist
	// before the request logger is built, and Recover must sit inside the
	// logger so panics are logged as 500s.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerTodoRoutes(router, h)

	router.GET("/", h.Root.Hello)

	return router
}

func registerTodoRoutes(r *echo.Echo, h *handler.Handlers) {
	todos := h.Todo

	create := handler.Handle[model.CreateTodoPayload](todos.Handler, todos.CreateTodo, http.StatusOK)
	list := handler.Handle[model.ListTodosPayload](todos.Handler, todos.ListTodos, http.StatusOK)

	// Both spellings of the collection route are served, neither redirects.
	for _, path := range []string{"/todos/", "/todos"} {
		r.POST(path, create)
		r.GET(path, list)
	}

	r.PUT("/todos/:id", handler.Handle[model.UpdateTodoPayload](todos.Handler, todos.UpdateTodo, http.StatusOK))
	r.DELETE("/todos/:id", handler.Handle[model.DeleteTodoPayload](todos.Handler, todos.DeleteTodo, http.StatusOK))
}
