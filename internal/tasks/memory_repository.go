package tasks

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository stores tasks in an in-process map, ideal for local development or tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Task
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[uuid.UUID]Task)}
}

// Create stores a new task.
func (r *InMemoryRepository) Create(_ context.Context, task Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[task.ID] = task
	return task, nil
}

// Get returns a task by ID and owner.
func (r *InMemoryRepository) Get(_ context.Context, userID, id uuid.UUID) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.data[id]
	if !ok || task.UserID != userID {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// List returns the user's tasks filtered by the options, due date ascending
// with undated tasks last.
func (r *InMemoryRepository) List(_ context.Context, userID uuid.UUID, opts ListOptions) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Task{}
	for _, task := range r.data {
		if task.UserID != userID {
			continue
		}
		if opts.Status != "" && task.Status != opts.Status {
			continue
		}
		if opts.Category != "" && task.Category != opts.Category {
			continue
		}
		out = append(out, task)
	}

	slices.SortFunc(out, func(a, b Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.Compare(b.CreatedAt)
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

// Update replaces an existing task.
func (r *InMemoryRepository) Update(_ context.Context, task Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[task.ID]
	if !ok || existing.UserID != task.UserID {
		return Task{}, ErrNotFound
	}
	r.data[task.ID] = task
	return task, nil
}

// Delete removes a task by ID and owner.
func (r *InMemoryRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.data[id]
	if !ok || task.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}
