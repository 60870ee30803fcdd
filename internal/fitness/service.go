package fitness

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates validation and persistence for fitness tracking.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddWater logs a drink, adding the amount to the day's running total.
// Negative amounts are allowed for corrections but the total never goes
// below zero.
func (s *Service) AddWater(ctx context.Context, userID uuid.UUID, date time.Time, amount int) (WaterIntake, error) {
	if amount == 0 {
		return WaterIntake{}, &ValidationError{Message: "amount must not be zero"}
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return s.repo.AddWater(ctx, userID, truncateToDay(date), amount)
}

// GetWater returns the intake total for the given day.
func (s *Service) GetWater(ctx context.Context, userID uuid.UUID, date time.Time) (WaterIntake, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return s.repo.GetWater(ctx, userID, truncateToDay(date))
}

// CreateWorkoutInput carries the fields accepted when logging a workout.
type CreateWorkoutInput struct {
	Title    string
	Category string
	Date     time.Time
	Duration int
	Notes    *string
}

// UpdateWorkoutInput carries optional replacement fields for a workout.
type UpdateWorkoutInput struct {
	Title    *string
	Category *string
	Date     *time.Time
	Duration *int
	Notes    **string
}

// CreateWorkout validates and persists a new workout.
func (s *Service) CreateWorkout(ctx context.Context, userID uuid.UUID, input CreateWorkoutInput) (Workout, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Workout{}, &ValidationError{Message: "title is required"}
	}
	if input.Duration <= 0 {
		return Workout{}, &ValidationError{Message: "duration must be positive"}
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	now := time.Now().UTC()
	workout := Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Category:  strings.TrimSpace(input.Category),
		Date:      truncateToDay(date),
		Duration:  input.Duration,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.repo.CreateWorkout(ctx, workout)
}

// GetWorkout returns a single workout owned by the user.
func (s *Service) GetWorkout(ctx context.Context, userID, id uuid.UUID) (Workout, error) {
	return s.repo.GetWorkout(ctx, userID, id)
}

// ListWorkouts returns the user's workouts within the window, newest first.
func (s *Service) ListWorkouts(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Workout, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, &ValidationError{Message: "invalid date range"}
	}
	return s.repo.ListWorkouts(ctx, userID, from, to)
}

// UpdateWorkout modifies a logged workout.
func (s *Service) UpdateWorkout(ctx context.Context, userID, id uuid.UUID, input UpdateWorkoutInput) (Workout, error) {
	workout, err := s.repo.GetWorkout(ctx, userID, id)
	if err != nil {
		return Workout{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Workout{}, &ValidationError{Message: "title is required"}
		}
		workout.Title = title
	}
	if input.Category != nil {
		workout.Category = strings.TrimSpace(*input.Category)
	}
	if input.Date != nil {
		workout.Date = truncateToDay(*input.Date)
	}
	if input.Duration != nil {
		if *input.Duration <= 0 {
			return Workout{}, &ValidationError{Message: "duration must be positive"}
		}
		workout.Duration = *input.Duration
	}
	if input.Notes != nil {
		workout.Notes = *input.Notes
	}

	workout.UpdatedAt = time.Now().UTC()
	return s.repo.UpdateWorkout(ctx, workout)
}

// DeleteWorkout removes a logged workout.
func (s *Service) DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteWorkout(ctx, userID, id)
}

// truncateToDay drops the time of day so the value matches the DATE columns.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
