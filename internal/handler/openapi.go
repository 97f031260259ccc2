package handler

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static/openapi.json static/openapi.html
var staticFiles embed.FS

// OpenAPIHandler serves the API documentation.
//
//   - GET /openapi.json returns the OpenAPI 3 document describing every route
//   - GET /docs returns a Swagger UI page that loads its scripts from a CDN
//     and renders /openapi.json
//
// Both files are embedded at build time, so the binary serves them no matter
// which directory it is started from.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	return h.serve(c, "static/openapi.html", echo.MIMETextHTMLCharsetUTF8)
}

func (h *OpenAPIHandler) ServeOpenAPISpec(c echo.Context) error {
	return h.serve(c, "static/openapi.json", echo.MIMEApplicationJSON)
}

// serve writes an embedded file with no-cache, so a redeploy with a changed
// document is picked up on the next page load.
func (h *OpenAPIHandler) serve(c echo.Context, name, contentType string) error {
	data, err := staticFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.Blob(http.StatusOK, contentType, data)
}
