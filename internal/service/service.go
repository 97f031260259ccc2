// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers pass in
// validated input, services call the repositories and return domain values
// or errors that the HTTP layer maps to responses.
package service
