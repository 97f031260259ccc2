// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldError for request bodies or HTTPError for API responses)
// so the client receives meaningful and consistent error messages.
package errs
