package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// newSQLite opens an embedded SQLite store at path.
//
// The pool is capped at one connection: SQLite serializes writers anyway,
// and an in-memory database exists only on the connection that created it.
func newSQLite(cfg *config.Config, logger *zerolog.Logger, path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	if path != ":memory:" && cfg.Database.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	}

	return &Database{
		Driver: DriverSQLite,
		SQL:    db,
		log:    logger,
	}, nil
}
