package integrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists integration records to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recordColumns = `user_id, google_refresh_token, google_calendar_sync, google_fitness_sync, last_synced_at, created_at, updated_at`

// Upsert inserts or replaces the record keyed by user id.
func (r *PostgresRepository) Upsert(ctx context.Context, record Record) (Record, error) {
	const query = `
		INSERT INTO user_integrations (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			google_refresh_token = CASE
				WHEN EXCLUDED.google_refresh_token = '' THEN user_integrations.google_refresh_token
				ELSE EXCLUDED.google_refresh_token
			END,
			google_calendar_sync = EXCLUDED.google_calendar_sync,
			google_fitness_sync = EXCLUDED.google_fitness_sync,
			last_synced_at = COALESCE(EXCLUDED.last_synced_at, user_integrations.last_synced_at),
			updated_at = EXCLUDED.updated_at
		RETURNING ` + recordColumns

	now := time.Now()
	var stored Record
	err := r.db.GetContext(ctx, &stored, query,
		record.UserID,
		record.RefreshToken,
		record.CalendarSync,
		record.FitnessSync,
		record.LastSyncedAt,
		now,
	)
	if err != nil {
		return Record{}, fmt.Errorf("upsert integration: %w", err)
	}
	return stored, nil
}

// Get returns the record, or (nil, nil) when the user is not linked.
func (r *PostgresRepository) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	const query = `SELECT ` + recordColumns + ` FROM user_integrations WHERE user_id = $1`

	var record Record
	if err := r.db.GetContext(ctx, &record, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get integration: %w", err)
	}
	return &record, nil
}

// TouchSyncTimestamp updates only the last-sync field.
func (r *PostgresRepository) TouchSyncTimestamp(ctx context.Context, userID uuid.UUID, syncedAt time.Time) error {
	const query = `UPDATE user_integrations SET last_synced_at = $2, updated_at = $2 WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, syncedAt); err != nil {
		return fmt.Errorf("touch sync timestamp: %w", err)
	}
	return nil
}
