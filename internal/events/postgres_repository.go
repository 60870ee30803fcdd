package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists calendar events to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `id, user_id, title, description, starts_at, ends_at, location, is_all_day, color, google_event_id, created_at, updated_at`

const insertEvent = `
INSERT INTO calendar_events (` + eventColumns + `)
VALUES (:id, :user_id, :title, :description, :starts_at, :ends_at, :location, :is_all_day, :color, :google_event_id, :created_at, :updated_at)`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, event Event) (Event, error) {
	if _, err := r.db.NamedExecContext(ctx, insertEvent, event); err != nil {
		return Event{}, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// Get retrieves a row by primary key and owner.
func (r *PostgresRepository) Get(ctx context.Context, userID, id uuid.UUID) (Event, error) {
	var event Event
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &event, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// List returns the user's events ordered by start time. Zero window bounds
// are treated as open ends.
func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE user_id = $1`
	args := []any{userID}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND ends_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND starts_at <= $%d", len(args))
	}
	query += " ORDER BY starts_at ASC"

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Update replaces an existing row.
func (r *PostgresRepository) Update(ctx context.Context, event Event) (Event, error) {
	const query = `
		UPDATE calendar_events
		SET title = :title, description = :description, starts_at = :starts_at, ends_at = :ends_at,
		    location = :location, is_all_day = :is_all_day, color = :color, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`

	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return Event{}, fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Event{}, fmt.Errorf("update event: %w", err)
	}
	if affected == 0 {
		return Event{}, ErrNotFound
	}
	return event, nil
}

// Delete removes a row by primary key and owner.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListImported returns every imported event for the user.
func (r *PostgresRepository) ListImported(ctx context.Context, userID uuid.UUID) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE user_id = $1 AND google_event_id IS NOT NULL ORDER BY starts_at ASC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("list imported events: %w", err)
	}
	return events, nil
}

// ReplaceImported swaps the user's imported events for the given set inside a
// single transaction so a failure cannot leave the user with a half-applied
// sync.
func (r *PostgresRepository) ReplaceImported(ctx context.Context, userID uuid.UUID, replacements []Event) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace imported: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calendar_events WHERE user_id = $1 AND google_event_id IS NOT NULL`, userID); err != nil {
		return 0, fmt.Errorf("delete imported events: %w", err)
	}

	for _, event := range replacements {
		if _, err := tx.NamedExecContext(ctx, insertEvent, event); err != nil {
			return 0, fmt.Errorf("insert imported event %s: %w", event.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace imported: %w", err)
	}

	return len(replacements), nil
}
