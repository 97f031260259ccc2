package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/todo-api/internal/model"
	"github.com/deppfellow/todo-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresTodoRepository struct {
	pool *pgxpool.Pool
}

func (r *postgresTodoRepository) Insert(ctx context.Context, content string) (*model.Todo, error) {
	var todo model.Todo
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `INSERT INTO todo (content) VALUES ($1) RETURNING id, content`, content)
		if err != nil {
			return err
		}
		todo, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Todo])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", postgresError(err))
	}
	return &todo, nil
}

func (r *postgresTodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	todos := []model.Todo{}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id, content FROM todo`)
		if err != nil {
			return err
		}
		collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Todo])
		if err != nil {
			return err
		}
		todos = append(todos, collected...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", postgresError(err))
	}
	return todos, nil
}

func (r *postgresTodoRepository) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id, content FROM todo WHERE id = $1`, id)
		if err != nil {
			return err
		}
		todo, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Todo])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get todo %d: %w", id, postgresError(err))
	}
	return &todo, nil
}

func (r *postgresTodoRepository) Update(ctx context.Context, id int64, content string) (*model.Todo, error) {
	var todo model.Todo
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `UPDATE todo SET content = $1 WHERE id = $2 RETURNING id, content`, content, id)
		if err != nil {
			return err
		}
		todo, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Todo])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update todo %d: %w", id, postgresError(err))
	}
	return &todo, nil
}

func (r *postgresTodoRepository) Delete(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM todo WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, postgresError(err))
	}
	return nil
}

// postgresError tags a missing row with the todo table so it surfaces as
// "Todo not found" and converts server errors into *sqlerr.Error.
func postgresError(err error) error {
	if sqlerr.IsNotFound(err) {
		return sqlerr.WithTable(todoTable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return sqlerr.ConvertPgError(pgErr)
	}
	return err
}
