package integrations

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	calendar "google.golang.org/api/calendar/v3"

	"wellspring/internal/events"
)

// untitledEvent is the placeholder for source events without a summary.
const untitledEvent = "Untitled"

// EventWriter is the slice of the events repository the reconciler needs.
type EventWriter interface {
	ReplaceImported(ctx context.Context, userID uuid.UUID, replacements []events.Event) (int, error)
}

// Reconciler converts fetched Google events into local rows and replaces the
// imported subset wholesale. Sync is replace-all, not diff-based: the mapped
// set becomes the user's imported events, and locally created events are
// never touched.
type Reconciler struct {
	writer EventWriter
}

// NewReconciler wires a Reconciler with the given event writer.
func NewReconciler(writer EventWriter) *Reconciler {
	return &Reconciler{writer: writer}
}

// Reconcile maps the raw events and applies the replacement in one
// transaction. It returns the inserted count; zero is a valid outcome.
func (r *Reconciler) Reconcile(ctx context.Context, userID uuid.UUID, rawEvents []*calendar.Event) (int, error) {
	mapped := make([]events.Event, 0, len(rawEvents))
	for _, raw := range rawEvents {
		event, ok := mapEvent(userID, raw)
		if !ok {
			continue
		}
		mapped = append(mapped, event)
	}

	count, err := r.writer.ReplaceImported(ctx, userID, mapped)
	if err != nil {
		return 0, fmt.Errorf("replace imported events: %w", err)
	}
	return count, nil
}

// mapEvent projects a Google event onto the local schema. Events with no
// usable start value are skipped.
func mapEvent(userID uuid.UUID, raw *calendar.Event) (events.Event, bool) {
	if raw == nil || raw.Id == "" {
		return events.Event{}, false
	}

	startsAt, allDay, ok := parseEventTime(raw.Start)
	if !ok {
		return events.Event{}, false
	}
	endsAt, _, ok := parseEventTime(raw.End)
	if !ok {
		endsAt = startsAt
	}

	title := raw.Summary
	if title == "" {
		title = untitledEvent
	}

	now := time.Now().UTC()
	googleID := raw.Id
	return events.Event{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Description:   optionalString(raw.Description),
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Location:      optionalString(raw.Location),
		AllDay:        allDay,
		Color:         colorFromID(raw.ColorId),
		GoogleEventID: &googleID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, true
}

// parseEventTime reads a Google event boundary: a dateTime for timed events,
// a date-only value for all-day events.
func parseEventTime(boundary *calendar.EventDateTime) (time.Time, bool, bool) {
	if boundary == nil {
		return time.Time{}, false, false
	}
	if boundary.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, boundary.DateTime)
		if err != nil {
			return time.Time{}, false, false
		}
		return parsed, false, true
	}
	if boundary.Date != "" {
		parsed, err := time.Parse("2006-01-02", boundary.Date)
		if err != nil {
			return time.Time{}, false, false
		}
		return parsed, true, true
	}
	return time.Time{}, false, false
}

// colorFromID derives a display color from the source's numeric color
// identifier, or nothing when the source supplied none.
func colorFromID(colorID string) *string {
	if colorID == "" {
		return nil
	}
	n, err := strconv.Atoi(colorID)
	if err != nil || n < 0 {
		return nil
	}
	color := fmt.Sprintf("#%06x", n)
	return &color
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
