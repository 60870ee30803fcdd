package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists profiles to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `user_id, display_name, height, weight_goal, body_fat_goal, water_intake_goal, fitness_level, created_at, updated_at`

// Get returns the profile, or (nil, nil) when the user has none yet.
func (r *PostgresRepository) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var profile Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Upsert inserts or replaces the profile keyed by user id.
func (r *PostgresRepository) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	const query = `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (:user_id, :display_name, :height, :weight_goal, :body_fat_goal, :water_intake_goal, :fitness_level, :created_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    height = EXCLUDED.height,
		    weight_goal = EXCLUDED.weight_goal,
		    body_fat_goal = EXCLUDED.body_fat_goal,
		    water_intake_goal = EXCLUDED.water_intake_goal,
		    fitness_level = EXCLUDED.fitness_level,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}
