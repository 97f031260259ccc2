// Package sqlerr specifically handles database driver errors.
//
// It classifies errors coming out of pgx and database/sql and converts
// them into application errors: a missing row becomes a 404 named after the
// table it was looked up in ("Todo not found"), a lost connection is
// recognized so callers can log it, and everything else is hidden behind a
// 500.
package sqlerr

import "fmt"

// Code is a driver-independent classification of a database error.
type Code string

const (
	Other             Code = "other"
	UndefinedTable    Code = "undefined_table"
	ConnectionFailure Code = "connection_failure"
)

// Error is a normalized Postgres error.
type Error struct {
	Code         Code
	Severity     string
	DatabaseCode string
	Message      string
	TableName    string
	driverErr    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE onto a Code.
//
// Only the classes the todo store can run into are told apart: the schema
// missing (42P01, migrations not applied) and class 08, connection
// exceptions raised while a statement was in flight.
func MapCode(sqlState string) Code {
	if sqlState == "42P01" {
		return UndefinedTable
	}
	if len(sqlState) == 5 && sqlState[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}
