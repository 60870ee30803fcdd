package integrations

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores integration records in process memory, for local
// development and tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Record
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[uuid.UUID]Record)}
}

// Upsert inserts or replaces the record keyed by user id.
func (r *InMemoryRepository) Upsert(_ context.Context, record Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	existing, ok := r.data[record.UserID]
	if ok {
		if record.RefreshToken == "" {
			record.RefreshToken = existing.RefreshToken
		}
		if record.LastSyncedAt == nil {
			record.LastSyncedAt = existing.LastSyncedAt
		}
		record.CreatedAt = existing.CreatedAt
	} else {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	r.data[record.UserID] = record
	return record, nil
}

// Get returns the record, or (nil, nil) when the user is not linked.
func (r *InMemoryRepository) Get(_ context.Context, userID uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.data[userID]
	if !ok {
		return nil, nil
	}
	copied := record
	return &copied, nil
}

// TouchSyncTimestamp updates only the last-sync field.
func (r *InMemoryRepository) TouchSyncTimestamp(_ context.Context, userID uuid.UUID, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.data[userID]
	if !ok {
		return nil
	}
	record.LastSyncedAt = &syncedAt
	record.UpdatedAt = syncedAt
	r.data[userID] = record
	return nil
}
