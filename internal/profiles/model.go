package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultWaterIntakeGoal is the daily water goal in milliliters assigned to
// profiles that never set one.
const DefaultWaterIntakeGoal = 2000

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

// Profile holds a user's personal settings and body goals. Height is in
// centimeters, weight goal in kilograms, body fat goal in percent.
type Profile struct {
	UserID          uuid.UUID `db:"user_id" json:"userId"`
	DisplayName     string    `db:"display_name" json:"displayName"`
	Height          *float64  `db:"height" json:"height,omitempty"`
	WeightGoal      *float64  `db:"weight_goal" json:"weightGoal,omitempty"`
	BodyFatGoal     *float64  `db:"body_fat_goal" json:"bodyFatGoal,omitempty"`
	WaterIntakeGoal int       `db:"water_intake_goal" json:"waterIntakeGoal"`
	FitnessLevel    *string   `db:"fitness_level" json:"fitnessLevel,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Repository defines persistence for profiles.
type Repository interface {
	// Get returns the profile, or (nil, nil) when the user has none yet.
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// Upsert inserts or replaces the profile keyed by user id.
	Upsert(ctx context.Context, profile Profile) (Profile, error)
}
