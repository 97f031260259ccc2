package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/deppfellow/todo-api/internal/handler"
	"github.com/deppfellow/todo-api/internal/model"
	"github.com/deppfellow/todo-api/internal/repository"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*echo.Echo, *server.Server) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.URL = "sqlite://" + filepath.Join(t.TempDir(), "todo.db")
	logger := zerolog.New(io.Discard)

	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	require.NoError(t, s.DB.Migrate(context.Background()))

	services, err := service.NewServices(s, repository.NewRepositories(s))
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services)), s
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoot(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Hello":"World"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestTodoScenario(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/todos/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/todos/", `{"content":"buy milk"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "buy milk", created.Content)

	rec = do(t, e, http.MethodGet, "/todos/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var todos []model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	assert.Equal(t, []model.Todo{created}, todos)

	target := "/todos/" + jsonNumber(created.ID)

	rec = do(t, e, http.MethodPut, target, `{"content":"buy eggs"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Data Updated successfully"}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":`+jsonNumber(created.ID)+`,"content":"buy eggs"}]`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Data deleted successfully"}`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, target, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Todo not found"}`, rec.Body.String())

	rec = do(t, e, http.MethodPut, target, `{"content":"again"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Todo not found"}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/todos/", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateTodo_IgnoresClientID(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/todos", `{"id":999,"content":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEqual(t, int64(999), created.ID)
	assert.Equal(t, "x", created.Content)
}

func TestCreateTodo_EmptyContentAllowed(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/todos/", `{"content":""}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "", created.Content)
}

func TestCreateTodo_WithoutContentType(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/todos/", strings.NewReader(`{"content":"x"}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "x", created.Content)

	req = httptest.NewRequest(http.MethodPut, "/todos/"+jsonNumber(created.ID), strings.NewReader(`{"content":"y"}`))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Data Updated successfully"}`, rec.Body.String())
}

func TestValidationErrors(t *testing.T) {
	e, _ := newTestRouter(t)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantLoc  []string
		wantType string
	}{
		{
			name:     "create without content",
			method:   http.MethodPost,
			target:   "/todos/",
			body:     `{}`,
			wantLoc:  []string{"body", "content"},
			wantType: "value_error.missing",
		},
		{
			name:     "create with numeric content",
			method:   http.MethodPost,
			target:   "/todos/",
			body:     `{"content":42}`,
			wantLoc:  []string{"body", "content"},
			wantType: "type_error.str",
		},
		{
			name:     "update without content",
			method:   http.MethodPut,
			target:   "/todos/1",
			body:     `{"title":"x"}`,
			wantLoc:  []string{"body", "content"},
			wantType: "value_error.missing",
		},
		{
			name:     "update with non integer id",
			method:   http.MethodPut,
			target:   "/todos/abc",
			body:     `{"content":"x"}`,
			wantLoc:  []string{"path", "id"},
			wantType: "type_error.integer",
		},
		{
			name:     "delete with non integer id",
			method:   http.MethodDelete,
			target:   "/todos/abc",
			wantLoc:  []string{"path", "id"},
			wantType: "type_error.integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.target, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body struct {
				Detail []struct {
					Loc  []string `json:"loc"`
					Msg  string   `json:"msg"`
					Type string   `json:"type"`
				} `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Len(t, body.Detail, 1)
			assert.Equal(t, tt.wantLoc, body.Detail[0].Loc)
			assert.Equal(t, tt.wantType, body.Detail[0].Type)
		})
	}

	// Nothing was stored by the rejected requests.
	rec := do(t, e, http.MethodGet, "/todos/", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())

	rec = do(t, e, http.MethodPatch, "/todos/1", `{"content":"x"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rec.Body.String())
}

func TestSystemRoutes(t *testing.T) {
	e, s := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])

	rec = do(t, e, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/todos/{id}")

	rec = do(t, e, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.json")

	// With the database gone the health check reports 503.
	require.NoError(t, s.DB.Close())
	rec = do(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
