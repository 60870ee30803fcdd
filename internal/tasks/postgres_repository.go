package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists tasks to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, user_id, title, description, due_date, priority, status, category, created_at, updated_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, task Task) (Task, error) {
	const query = `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (:id, :user_id, :title, :description, :due_date, :priority, :status, :category, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// Get retrieves a row by primary key and owner.
func (r *PostgresRepository) Get(ctx context.Context, userID, id uuid.UUID) (Task, error) {
	var task Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &task, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// List returns the user's tasks ordered by due date, undated tasks last.
func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if opts.Status != "" {
		args = append(args, opts.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if opts.Category != "" {
		args = append(args, opts.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY due_date ASC NULLS LAST, created_at ASC"

	tasks := []Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update replaces an existing row.
func (r *PostgresRepository) Update(ctx context.Context, task Task) (Task, error) {
	const query = `
		UPDATE tasks
		SET title = :title, description = :description, due_date = :due_date,
		    priority = :priority, status = :status, category = :category, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`

	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// Delete removes a row by primary key and owner.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
