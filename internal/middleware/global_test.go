package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/deppfellow/todo-api/internal/errs"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	logger := zerolog.New(io.Discard)
	return &server.Server{
		Config: config.DefaultConfig(),
		Logger: &logger,
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "application not found",
			err:        errs.NewNotFoundError("Todo not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"Todo not found"}`,
		},
		{
			name: "field errors become the detail",
			err: errs.NewUnprocessableEntityError("Validation failed", []errs.FieldError{
				{Loc: []string{"body", "content"}, Msg: "field required", Type: "value_error.missing"},
			}),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"detail":[{"loc":["body","content"],"msg":"field required","type":"value_error.missing"}]}`,
		},
		{
			name:       "missing row from the store",
			err:        sqlerr.WithTable("todo", pgx.ErrNoRows),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"Todo not found"}`,
		},
		{
			name:       "unknown route",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"Not Found"}`,
		},
		{
			name:       "wrong method",
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"detail":"Method Not Allowed"}`,
		},
		{
			name:       "unexpected error is hidden",
			err:        errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"Internal Server Error"}`,
		},
	}

	global := NewGlobalMiddlewares(newTestServer())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/todos/1", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestGlobalErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewGlobalMiddlewares(newTestServer()).GlobalErrorHandler(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", rec.Body.String())
	})
}

func TestEnhanceContext_StoresLogger(t *testing.T) {
	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(newTestServer()).EnhanceContext())
	e.GET("/", func(c echo.Context) error {
		_, ok := c.Get(LoggerKey).(*zerolog.Logger)
		return c.JSON(http.StatusOK, map[string]bool{
			"echo":    ok,
			"context": zerolog.Ctx(c.Request().Context()).GetLevel() != zerolog.Disabled,
		})
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var got map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got["echo"])
	assert.True(t, got["context"])
}
