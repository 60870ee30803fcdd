package fitness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists fitness data to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const waterColumns = `id, user_id, date, amount, created_at, updated_at`

// AddWater upserts the day's row, adding to the running total. The UNIQUE
// (user_id, date) constraint makes the increment race-safe.
func (r *PostgresRepository) AddWater(ctx context.Context, userID uuid.UUID, date time.Time, amount int) (WaterIntake, error) {
	const query = `
		INSERT INTO water_intake (id, user_id, date, amount, created_at, updated_at)
		VALUES ($1, $2, $3, GREATEST($4, 0), NOW(), NOW())
		ON CONFLICT (user_id, date) DO UPDATE
		SET amount = GREATEST(water_intake.amount + $4, 0), updated_at = NOW()
		RETURNING ` + waterColumns

	var intake WaterIntake
	if err := r.db.GetContext(ctx, &intake, query, uuid.New(), userID, date, amount); err != nil {
		return WaterIntake{}, fmt.Errorf("add water intake: %w", err)
	}
	return intake, nil
}

// GetWater returns the day's row, or a zero-amount value when none exists.
func (r *PostgresRepository) GetWater(ctx context.Context, userID uuid.UUID, date time.Time) (WaterIntake, error) {
	var intake WaterIntake
	query := `SELECT ` + waterColumns + ` FROM water_intake WHERE user_id = $1 AND date = $2`
	if err := r.db.GetContext(ctx, &intake, query, userID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return WaterIntake{UserID: userID, Date: date}, nil
		}
		return WaterIntake{}, fmt.Errorf("get water intake: %w", err)
	}
	return intake, nil
}

const workoutColumns = `id, user_id, title, category, date, duration, notes, created_at, updated_at`

// CreateWorkout inserts a new row.
func (r *PostgresRepository) CreateWorkout(ctx context.Context, workout Workout) (Workout, error) {
	const query = `
		INSERT INTO workouts (` + workoutColumns + `)
		VALUES (:id, :user_id, :title, :category, :date, :duration, :notes, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, workout); err != nil {
		return Workout{}, fmt.Errorf("insert workout: %w", err)
	}
	return workout, nil
}

// GetWorkout retrieves a row by primary key and owner.
func (r *PostgresRepository) GetWorkout(ctx context.Context, userID, id uuid.UUID) (Workout, error) {
	var workout Workout
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &workout, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Workout{}, ErrNotFound
		}
		return Workout{}, fmt.Errorf("get workout: %w", err)
	}
	return workout, nil
}

// ListWorkouts returns the user's workouts within the window, newest first.
// Zero window bounds are treated as open ends.
func (r *PostgresRepository) ListWorkouts(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = $1`
	args := []any{userID}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"

	workouts := []Workout{}
	if err := r.db.SelectContext(ctx, &workouts, query, args...); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

// UpdateWorkout replaces an existing row.
func (r *PostgresRepository) UpdateWorkout(ctx context.Context, workout Workout) (Workout, error) {
	const query = `
		UPDATE workouts
		SET title = :title, category = :category, date = :date,
		    duration = :duration, notes = :notes, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`

	result, err := r.db.NamedExecContext(ctx, query, workout)
	if err != nil {
		return Workout{}, fmt.Errorf("update workout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Workout{}, fmt.Errorf("update workout: %w", err)
	}
	if affected == 0 {
		return Workout{}, ErrNotFound
	}
	return workout, nil
}

// DeleteWorkout removes a row by primary key and owner.
func (r *PostgresRepository) DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
