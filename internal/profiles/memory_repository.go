package profiles

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository stores profiles in process memory, for local development
// and tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Profile
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[uuid.UUID]Profile)}
}

// Get returns the profile, or (nil, nil) when the user has none yet.
func (r *InMemoryRepository) Get(_ context.Context, userID uuid.UUID) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.data[userID]
	if !ok {
		return nil, nil
	}
	copied := profile
	return &copied, nil
}

// Upsert inserts or replaces the profile keyed by user id.
func (r *InMemoryRepository) Upsert(_ context.Context, profile Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.data[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	r.data[profile.UserID] = profile
	return profile, nil
}
