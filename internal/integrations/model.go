package integrations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotLinked is returned when a sync is requested for a user that never
// completed the consent flow (or whose record lacks a refresh token).
var ErrNotLinked = errors.New("google integration not linked")

// ErrValidation is returned when caller input fails validation.
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

// Record holds a user's Google integration state. There is at most one per
// user; it is created on the first successful OAuth callback and updated on
// every subsequent sync or re-authorization. The refresh token is a secret
// and is never serialized or logged.
type Record struct {
	UserID       uuid.UUID  `db:"user_id" json:"userId"`
	RefreshToken string     `db:"google_refresh_token" json:"-"`
	CalendarSync bool       `db:"google_calendar_sync" json:"googleCalendarSync"`
	FitnessSync  bool       `db:"google_fitness_sync" json:"googleFitnessSync"`
	LastSyncedAt *time.Time `db:"last_synced_at" json:"lastSyncedAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Linked reports whether the record can be used to sync.
func (r *Record) Linked() bool {
	return r != nil && r.RefreshToken != ""
}

// Repository defines persistence for integration records.
type Repository interface {
	// Upsert inserts or replaces the record keyed by user. An empty incoming
	// refresh token preserves a previously stored one, since the provider
	// only issues refresh tokens on first consent.
	Upsert(ctx context.Context, record Record) (Record, error)

	// Get returns the record, or (nil, nil) when the user is not linked.
	Get(ctx context.Context, userID uuid.UUID) (*Record, error)

	// TouchSyncTimestamp updates only the last-sync field.
	TouchSyncTimestamp(ctx context.Context, userID uuid.UUID, syncedAt time.Time) error
}
