package errs

import "strings"

// FieldError describes one invalid input location.
//
//	{ "loc": ["body", "content"], "msg": "field required", "type": "value_error.missing" }
type FieldError struct {
	// Loc is the path to the offending value: the source ("body", "path")
	// followed by the field name.
	Loc []string `json:"loc"`

	// Msg is the human-readable error message.
	Msg string `json:"msg"`

	// Type is a machine-friendly error class.
	Type string `json:"type"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "NOT_FOUND").
//   - Message: human-friendly message, sent as the response detail.
//   - Status: HTTP status code.
//   - Errors: field-level errors; when present they replace Message as the detail.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and Status are not
// compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// Detail is the value written under "detail" in the response body: the
// field errors when there are any, the message otherwise.
func (e *HTTPError) Detail() any {
	if len(e.Errors) > 0 {
		return e.Errors
	}
	return e.Message
}

// Response is the JSON body of every error response.
type Response struct {
	Detail any `json:"detail"`
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
