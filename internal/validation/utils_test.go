package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/todo-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contentPayload struct {
	ID      int64   `param:"id" json:"-"`
	Content *string `json:"content" validate:"required"`
}

func (p *contentPayload) Validate() error {
	return Struct(p)
}

func newContext(body string, paramValue string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/todos/"+paramValue, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(paramValue)
	return c
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		param    string
		wantLoc  []string
		wantType string
	}{
		{
			name:     "missing content",
			body:     `{}`,
			param:    "1",
			wantLoc:  []string{"body", "content"},
			wantType: "value_error.missing",
		},
		{
			name:     "null content",
			body:     `{"content": null}`,
			param:    "1",
			wantLoc:  []string{"body", "content"},
			wantType: "value_error.missing",
		},
		{
			name:     "content of the wrong type",
			body:     `{"content": 42}`,
			param:    "1",
			wantLoc:  []string{"body", "content"},
			wantType: "type_error.str",
		},
		{
			name:     "malformed json",
			body:     `{"content": }`,
			param:    "1",
			wantType: "value_error.jsondecode",
		},
		{
			name:     "non integer id",
			body:     `{"content": "x"}`,
			param:    "abc",
			wantLoc:  []string{"path", "id"},
			wantType: "type_error.integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BindAndValidate(newContext(tt.body, tt.param), &contentPayload{})

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
			require.Len(t, httpErr.Errors, 1)
			assert.Equal(t, tt.wantType, httpErr.Errors[0].Type)
			if tt.wantLoc != nil {
				assert.Equal(t, tt.wantLoc, httpErr.Errors[0].Loc)
			}
		})
	}
}

func TestBindAndValidate_Valid(t *testing.T) {
	payload := &contentPayload{}
	require.NoError(t, BindAndValidate(newContext(`{"content": ""}`, "7"), payload))

	assert.Equal(t, int64(7), payload.ID)
	require.NotNil(t, payload.Content)
	assert.Equal(t, "", *payload.Content)
}

func TestBindAndValidate_MissingContentType(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/todos/3", strings.NewReader(`{"content": "buy eggs"}`))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("3")

	payload := &contentPayload{}
	require.NoError(t, BindAndValidate(c, payload))

	assert.Equal(t, int64(3), payload.ID)
	require.NotNil(t, payload.Content)
	assert.Equal(t, "buy eggs", *payload.Content)
}

func TestBindAndValidate_MissingContentTypeStillValidated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/todos/", strings.NewReader(`{}`))
	c := e.NewContext(req, httptest.NewRecorder())

	err := BindAndValidate(c, &contentPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, []string{"body", "content"}, httpErr.Errors[0].Loc)
	assert.Equal(t, "value_error.missing", httpErr.Errors[0].Type)
}
