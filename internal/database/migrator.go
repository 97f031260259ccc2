package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	tern "github.com/jackc/tern/v2/migrate"
)

// Postgres migrations, applied in filename order by tern.
//
//go:embed migrations/*.sql
var migrations embed.FS

//go:embed schema_sqlite.sql
var sqliteSchema string

// Migrate ensures the todo table and its index exist.
//
// It must succeed before the HTTP listener starts; both the serve and the
// migrate commands call it right after the database answers its ping.
//
// SQLite:
//   - the embedded schema_sqlite.sql is executed as is
//   - every statement is CREATE ... IF NOT EXISTS, so reruns are no-ops
//
// Postgres:
//   - one connection is borrowed from the pool, because tern drives a single
//     *pgx.Conn rather than a pool
//   - tern keeps the applied version in the schema_version table and only
//     runs migrations newer than it
//   - the migrations are themselves create-if-absent, so a todo table made
//     by an earlier deployment without schema_version is adopted untouched
//
// Nothing here drops or alters existing schema.
func (db *Database) Migrate(ctx context.Context) error {
	if db.Driver == DriverSQLite {
		if _, err := db.SQL.ExecContext(ctx, sqliteSchema); err != nil {
			return fmt.Errorf("applying sqlite schema: %w", err)
		}
		db.log.Info().Msg("database schema up to date")
		return nil
	}

	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection for migrations: %w", err)
	}
	defer conn.Release()

	m, err := tern.NewMigrator(ctx, conn.Conn(), "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	// Migrate wraps each pending migration in its own transaction.
	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		db.log.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		db.log.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
