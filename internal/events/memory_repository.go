package events

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores events in an in-process map, ideal for local development or tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Event

	// ReplaceErr, when set, makes the next ReplaceImported call fail. Tests
	// use it to exercise the rollback path.
	ReplaceErr error
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[uuid.UUID]Event)}
}

// Create stores a new event.
func (r *InMemoryRepository) Create(_ context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[event.ID] = event
	return event, nil
}

// Get returns an event by ID and owner.
func (r *InMemoryRepository) Get(_ context.Context, userID, id uuid.UUID) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.data[id]
	if !ok || event.UserID != userID {
		return Event{}, ErrNotFound
	}
	return event, nil
}

// List returns the user's events within the window, ordered by start time.
func (r *InMemoryRepository) List(_ context.Context, userID uuid.UUID, from, to time.Time) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Event{}
	for _, event := range r.data {
		if event.UserID != userID {
			continue
		}
		if !from.IsZero() && event.EndsAt.Before(from) {
			continue
		}
		if !to.IsZero() && event.StartsAt.After(to) {
			continue
		}
		out = append(out, event)
	}
	sortByStart(out)
	return out, nil
}

// Update replaces an existing event.
func (r *InMemoryRepository) Update(_ context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[event.ID]
	if !ok || existing.UserID != event.UserID {
		return Event{}, ErrNotFound
	}
	r.data[event.ID] = event
	return event, nil
}

// Delete removes an event by ID and owner.
func (r *InMemoryRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.data[id]
	if !ok || event.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// ListImported returns every imported event for the user.
func (r *InMemoryRepository) ListImported(_ context.Context, userID uuid.UUID) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Event{}
	for _, event := range r.data {
		if event.UserID == userID && event.Imported() {
			out = append(out, event)
		}
	}
	sortByStart(out)
	return out, nil
}

// ReplaceImported swaps the user's imported events for the given set. The
// whole operation is applied atomically under the lock, mirroring the
// transactional Postgres implementation.
func (r *InMemoryRepository) ReplaceImported(_ context.Context, userID uuid.UUID, replacements []Event) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ReplaceErr != nil {
		err := r.ReplaceErr
		r.ReplaceErr = nil
		return 0, err
	}

	for id, event := range r.data {
		if event.UserID == userID && event.Imported() {
			delete(r.data, id)
		}
	}
	for _, event := range replacements {
		r.data[event.ID] = event
	}
	return len(replacements), nil
}

func sortByStart(events []Event) {
	slices.SortFunc(events, func(a, b Event) int {
		return a.StartsAt.Compare(b.StartsAt)
	})
}
