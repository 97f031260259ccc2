// Package database contains the logic for establishing
// connections to the backing store.
//
// PostgreSQL is reached through a pgx connection pool (pgxpool);
// sqlite:// URLs open an embedded SQLite database instead, which is what
// local development and the tests use.
//
// It handles:
//   - parsing DATABASE_URL and forcing the configured sslmode
//   - creating the pool with connection recycling
//   - wiring query tracing/logging (pgx tracelog, slow queries)
//   - optional New Relic instrumentation (nrpgx5)
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/todo-api/internal/config"
	loggerConfig "github.com/deppfellow/todo-api/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Driver names the store behind a Database.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Database is the process-wide store handle. Exactly one of Pool and SQL is
// set, depending on Driver.
type Database struct {
	Driver Driver
	Pool   *pgxpool.Pool
	SQL    *sql.DB
	log    *zerolog.Logger
}

// multiTracer chains several pgx query tracers; pgx only has one slot.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// slowQueryTracer logs statements that ran longer than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: time.Now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	if elapsed := time.Since(start.at); elapsed > t.threshold {
		t.log.Warn().
			Str("sql", start.sql).
			Dur("duration", elapsed).
			Dur("threshold", t.threshold).
			Err(data.Err).
			Msg("slow query")
	}
}

// DatabasePingTimeout is how long startup waits for the store to answer.
const DatabasePingTimeout = 10 * time.Second

// ParseURL splits DATABASE_URL into a driver and the DSN that driver expects.
//
// Postgres URLs get their scheme normalized to postgres:// and, when sslMode
// is not empty, their sslmode query parameter replaced with it.
func ParseURL(raw, sslMode string) (Driver, string, error) {
	// SQLite paths are not URLs ("sqlite://:memory:" has no valid host), so
	// they are split off before parsing.
	if scheme, path, ok := strings.Cut(raw, "://"); ok {
		if scheme = strings.ToLower(scheme); scheme == "sqlite" || scheme == "sqlite3" {
			if path == "" {
				path = ":memory:"
			}
			return DriverSQLite, path, nil
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid database url: %w", err)
	}

	switch scheme := strings.ToLower(u.Scheme); {
	case scheme == "postgres" || scheme == "postgresql" || strings.HasPrefix(scheme, "postgresql+"):
		u.Scheme = "postgres"
		if sslMode != "" {
			q := u.Query()
			q.Set("sslmode", sslMode)
			u.RawQuery = q.Encode()
		}
		return DriverPostgres, u.String(), nil

	default:
		return "", "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}

// New opens the store named by cfg.Database.URL and pings it.
//
// loggerService may be nil; New Relic tracing is attached only when it holds
// a running application.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	driver, dsn, err := ParseURL(cfg.Database.URL, cfg.Database.SSLMode)
	if err != nil {
		return nil, err
	}

	var database *Database
	switch driver {
	case DriverSQLite:
		database, err = newSQLite(cfg, logger, dsn)
	default:
		database, err = newPostgres(cfg, logger, loggerService, dsn)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", string(driver)).Msg("connected to the database")

	return database, nil
}

func newPostgres(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService, dsn string) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	// Pooled connections are recycled so none goes stale behind a proxy.
	if cfg.Database.ConnMaxLifetime > 0 {
		pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second
	}

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: threshold, log: logger})
	}

	// Full SQL logging is noisy, so only in local env.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	return &Database{
		Driver: DriverPostgres,
		Pool:   pool,
		log:    logger,
	}, nil
}

// Ping checks that the store answers.
func (db *Database) Ping(ctx context.Context) error {
	if db.Driver == DriverSQLite {
		return db.SQL.PingContext(ctx)
	}
	return db.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	if db.Driver == DriverSQLite {
		return db.SQL.Close()
	}
	db.Pool.Close()
	return nil
}
