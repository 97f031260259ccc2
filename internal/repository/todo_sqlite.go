package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deppfellow/todo-api/internal/model"
	"github.com/deppfellow/todo-api/internal/sqlerr"
)

type sqliteTodoRepository struct {
	db *sql.DB
}

// inTx runs fn in a transaction, committing when it returns nil.
func (r *sqliteTodoRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqliteTodoRepository) Insert(ctx context.Context, content string) (*model.Todo, error) {
	var todo model.Todo
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `INSERT INTO todo (content) VALUES (?) RETURNING id, content`, content).
			Scan(&todo.ID, &todo.Content)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}
	return &todo, nil
}

func (r *sqliteTodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	todos := []model.Todo{}
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id, content FROM todo`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var todo model.Todo
			if err := rows.Scan(&todo.ID, &todo.Content); err != nil {
				return err
			}
			todos = append(todos, todo)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (r *sqliteTodoRepository) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT id, content FROM todo WHERE id = ?`, id).
			Scan(&todo.ID, &todo.Content)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get todo %d: %w", id, sqliteError(err))
	}
	return &todo, nil
}

func (r *sqliteTodoRepository) Update(ctx context.Context, id int64, content string) (*model.Todo, error) {
	var todo model.Todo
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `UPDATE todo SET content = ? WHERE id = ? RETURNING id, content`, content, id).
			Scan(&todo.ID, &todo.Content)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update todo %d: %w", id, sqliteError(err))
	}
	return &todo, nil
}

func (r *sqliteTodoRepository) Delete(ctx context.Context, id int64) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM todo WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, sqliteError(err))
	}
	return nil
}

func sqliteError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sqlerr.WithTable(todoTable, err)
	}
	return err
}
