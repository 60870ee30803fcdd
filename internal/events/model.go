package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an event cannot be located.
var ErrNotFound = errors.New("event not found")

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

// Event is a calendar entry owned by a user. Rows with a non-nil
// GoogleEventID were imported by sync and are replaced wholesale on every
// sync pass; rows without one are locally created and never touched by sync.
type Event struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"userId"`
	Title         string    `db:"title" json:"title"`
	Description   *string   `db:"description" json:"description,omitempty"`
	StartsAt      time.Time `db:"starts_at" json:"startsAt"`
	EndsAt        time.Time `db:"ends_at" json:"endsAt"`
	Location      *string   `db:"location" json:"location,omitempty"`
	AllDay        bool      `db:"is_all_day" json:"isAllDay"`
	Color         *string   `db:"color" json:"color,omitempty"`
	GoogleEventID *string   `db:"google_event_id" json:"googleEventId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Imported reports whether the event originated from a sync pass.
func (e Event) Imported() bool {
	return e.GoogleEventID != nil
}

// Repository defines persistence for calendar events.
type Repository interface {
	Create(ctx context.Context, event Event) (Event, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Event, error)
	List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// ListImported returns every event for the user that carries a Google
	// event identifier.
	ListImported(ctx context.Context, userID uuid.UUID) ([]Event, error)

	// ReplaceImported atomically deletes the user's imported events and
	// inserts the given replacements, returning the inserted count. Locally
	// created events are left untouched.
	ReplaceImported(ctx context.Context, userID uuid.UUID, replacements []Event) (int, error)
}
