package sqlerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/deppfellow/todo-api/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const tablePrefix = "table:"

// ErrCode reports the Code for err.
//
// Besides server-reported class 08 SQLSTATEs, errors raised before or
// outside a statement count as ConnectionFailure too:
//   - *pgconn.ConnectError when the pool cannot dial
//   - net.Error for a connection dropped mid-query
//   - driver.ErrBadConn from database/sql
//
// A cancelled or timed-out request context is not a connection failure.
func ErrCode(err error) Code {
	if err == nil {
		return Other
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) && sqlErr.Code != Other {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Other
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return ConnectionFailure
	}

	return Other
}

// WithTable annotates a lookup error with the table it ran against so
// HandleError can name the missing entity ("table:todo: no rows in result set").
func WithTable(table string, err error) error {
	return fmt.Errorf("%s%s: %w", tablePrefix, table, err)
}

// IsNotFound reports whether err is a missing-row error from either driver.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:         MapCode(src.Code),
		Severity:     src.Severity,
		DatabaseCode: src.Code,
		Message:      src.Message,
		TableName:    src.TableName,
		driverErr:    src,
	}
}

// getEntityName turns a table name into an entity name: "todo" -> "Todo",
// "todos" -> "Todo", "" -> "Resource".
func getEntityName(tableName string) string {
	if tableName == "" {
		return "Resource"
	}

	entity := tableName
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return cases.Title(language.English).String(strings.ReplaceAll(entity, "_", " "))
}

// tableOf extracts the table name added by WithTable, or "".
func tableOf(err error) string {
	_, rest, ok := strings.Cut(err.Error(), tablePrefix)
	if !ok {
		return ""
	}
	table, _, _ := strings.Cut(rest, ":")
	return table
}

// HandleError converts a low-level database error into an application-level error.
//
//   - *errs.HTTPError: returned unchanged
//   - pgx.ErrNoRows / sql.ErrNoRows: 404, named after the table when WithTable was used
//   - anything else, connection failures included: 500, without the driver message
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if IsNotFound(err) {
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(tableOf(err))))
	}

	return errs.NewInternalServerError()
}
