package fitness

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type waterKey struct {
	userID uuid.UUID
	date   time.Time
}

// InMemoryRepository stores fitness data in process memory, for local
// development and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	water    map[waterKey]WaterIntake
	workouts map[uuid.UUID]Workout
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		water:    make(map[waterKey]WaterIntake),
		workouts: make(map[uuid.UUID]Workout),
	}
}

// AddWater increments the day's total, clamping at zero.
func (r *InMemoryRepository) AddWater(_ context.Context, userID uuid.UUID, date time.Time, amount int) (WaterIntake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := waterKey{userID: userID, date: date}
	now := time.Now()

	intake, ok := r.water[key]
	if !ok {
		intake = WaterIntake{ID: uuid.New(), UserID: userID, Date: date, CreatedAt: now}
	}
	intake.Amount += amount
	if intake.Amount < 0 {
		intake.Amount = 0
	}
	intake.UpdatedAt = now

	r.water[key] = intake
	return intake, nil
}

// GetWater returns the day's total, zero when nothing was logged.
func (r *InMemoryRepository) GetWater(_ context.Context, userID uuid.UUID, date time.Time) (WaterIntake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intake, ok := r.water[waterKey{userID: userID, date: date}]
	if !ok {
		return WaterIntake{UserID: userID, Date: date}, nil
	}
	return intake, nil
}

// CreateWorkout stores a new workout.
func (r *InMemoryRepository) CreateWorkout(_ context.Context, workout Workout) (Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workouts[workout.ID] = workout
	return workout, nil
}

// GetWorkout returns a workout by ID and owner.
func (r *InMemoryRepository) GetWorkout(_ context.Context, userID, id uuid.UUID) (Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return Workout{}, ErrNotFound
	}
	return workout, nil
}

// ListWorkouts returns the user's workouts within the window, newest first.
func (r *InMemoryRepository) ListWorkouts(_ context.Context, userID uuid.UUID, from, to time.Time) ([]Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Workout{}
	for _, workout := range r.workouts {
		if workout.UserID != userID {
			continue
		}
		if !from.IsZero() && workout.Date.Before(from) {
			continue
		}
		if !to.IsZero() && workout.Date.After(to) {
			continue
		}
		out = append(out, workout)
	}

	slices.SortFunc(out, func(a, b Workout) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// UpdateWorkout replaces an existing workout.
func (r *InMemoryRepository) UpdateWorkout(_ context.Context, workout Workout) (Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.workouts[workout.ID]
	if !ok || existing.UserID != workout.UserID {
		return Workout{}, ErrNotFound
	}
	r.workouts[workout.ID] = workout
	return workout, nil
}

// DeleteWorkout removes a workout by ID and owner.
func (r *InMemoryRepository) DeleteWorkout(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}
