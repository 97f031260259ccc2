package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/todo-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required"`)
// - Implement Validate() error that calls validation.Struct(req)
type Validatable interface {
	Validate() error
}

var validate = newValidator()

// newValidator reports fields by their JSON name so error locations match
// what the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags with the shared validator.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates the struct from path params and the body.
// 2) payload.Validate() applies validation rules.
// 3) Either failure becomes a 422 *errs.HTTPError with field-level errors.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	// A body sent without Content-Type is read as JSON, the only format the
	// API speaks, instead of being refused as an unsupported media type.
	if req := c.Request(); req.ContentLength != 0 && req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	if err := c.Bind(payload); err != nil {
		return bindError(c, err)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewUnprocessableEntityError(msg, fieldErrors)
	}

	return nil
}

// bindError classifies an echo binding failure by the error echo wrapped.
func bindError(c echo.Context, err error) *errs.HTTPError {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		numErr    *strconv.NumError
		echoErr   *echo.HTTPError
	)

	var fieldError errs.FieldError
	switch {
	case errors.As(err, &typeErr):
		kind := typeName(typeErr.Type)
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		fieldError = errs.FieldError{
			Loc:  loc,
			Msg:  fmt.Sprintf("value is not a valid %s", kind),
			Type: "type_error." + kind,
		}

	case errors.As(err, &syntaxErr):
		fieldError = errs.FieldError{
			Loc:  []string{"body", strconv.FormatInt(syntaxErr.Offset, 10)},
			Msg:  "JSON decode error",
			Type: "value_error.jsondecode",
		}

	case errors.As(err, &numErr):
		loc := []string{"path"}
		if name := paramName(c, numErr.Num); name != "" {
			loc = append(loc, name)
		}
		fieldError = errs.FieldError{
			Loc:  loc,
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		}

	default:
		msg := err.Error()
		if errors.As(err, &echoErr) {
			msg = fmt.Sprint(echoErr.Message)
		}
		fieldError = errs.FieldError{
			Loc:  []string{"body"},
			Msg:  msg,
			Type: "value_error",
		}
	}

	return errs.NewUnprocessableEntityError("Validation failed", []errs.FieldError{fieldError})
}

// paramName finds the path parameter holding value.
func paramName(c echo.Context, value string) string {
	for _, name := range c.ParamNames() {
		if c.Param(name) == value {
			return name
		}
	}
	return ""
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "str"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "dict"
	default:
		return t.Kind().String()
	}
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

// extractValidationError turns validator failures into field errors located
// in the request body, the only place payloads carry `validate` tags.
func extractValidationError(err error) (string, []errs.FieldError) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msg := "field required"
		errType := "value_error.missing"
		if fe.Tag() != "required" {
			msg = fmt.Sprintf("failed on %s", fe.Tag())
			errType = "value_error." + fe.Tag()
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Loc:  []string{"body", fe.Field()},
			Msg:  msg,
			Type: errType,
		})
	}

	return "Validation failed", fieldErrors
}
