package fitness

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a workout cannot be located.
var ErrNotFound = errors.New("workout not found")

// ErrValidation is returned when input validation fails.
var ErrValidation = errors.New("validation error")

// ValidationError wraps a validation message so callers can distinguish
// client errors from internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// WaterIntake is a user's total water consumption for one day, in
// milliliters. One row per user per day.
type WaterIntake struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Date      time.Time `db:"date" json:"date"`
	Amount    int       `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Workout is a logged exercise session. Duration is in minutes.
type Workout struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Category  string    `db:"category" json:"category"`
	Date      time.Time `db:"date" json:"date"`
	Duration  int       `db:"duration" json:"duration"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Repository defines persistence for fitness tracking.
type Repository interface {
	// AddWater increments the day's intake by the given amount, creating the
	// row when the user has not logged water for that date yet. It returns
	// the day's new total.
	AddWater(ctx context.Context, userID uuid.UUID, date time.Time, amount int) (WaterIntake, error)

	// GetWater returns the day's intake, with a zero amount when the user
	// has not logged water for that date.
	GetWater(ctx context.Context, userID uuid.UUID, date time.Time) (WaterIntake, error)

	CreateWorkout(ctx context.Context, workout Workout) (Workout, error)
	GetWorkout(ctx context.Context, userID, id uuid.UUID) (Workout, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Workout, error)
	UpdateWorkout(ctx context.Context, workout Workout) (Workout, error)
	DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error
}
