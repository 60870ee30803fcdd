package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates validation and persistence for locally managed events.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateEventInput carries the fields accepted when creating a local event.
type CreateEventInput struct {
	Title       string
	Description *string
	StartsAt    time.Time
	EndsAt      time.Time
	Location    *string
	AllDay      bool
	Color       *string
}

// UpdateEventInput carries optional replacement fields for a local event.
type UpdateEventInput struct {
	Title       *string
	Description **string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Location    **string
	AllDay      *bool
	Color       **string
}

// Create validates and persists a new locally created event.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateEventInput) (Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Event{}, &ValidationError{Message: "title is required"}
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
		return Event{}, &ValidationError{Message: "start and end times are required"}
	}
	if input.EndsAt.Before(input.StartsAt) {
		return Event{}, &ValidationError{Message: "end time must not precede start time"}
	}

	now := time.Now().UTC()
	event := Event{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Location:    input.Location,
		AllDay:      input.AllDay,
		Color:       input.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Create(ctx, event)
}

// Get returns a single event owned by the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Event, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns the user's events within the given window, imported and local alike.
func (s *Service) List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Event, error) {
	if !to.IsZero() && !from.IsZero() && to.Before(from) {
		return nil, &ValidationError{Message: "invalid date range"}
	}
	return s.repo.List(ctx, userID, from, to)
}

// Update modifies a locally created event. Imported events are read-only
// through this API; sync owns their lifecycle.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, input UpdateEventInput) (Event, error) {
	event, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Event{}, err
	}
	if event.Imported() {
		return Event{}, &ValidationError{Message: "imported events are read-only"}
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Event{}, &ValidationError{Message: "title is required"}
		}
		event.Title = title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = *input.EndsAt
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.AllDay != nil {
		event.AllDay = *input.AllDay
	}
	if input.Color != nil {
		event.Color = *input.Color
	}

	if event.EndsAt.Before(event.StartsAt) {
		return Event{}, &ValidationError{Message: "end time must not precede start time"}
	}

	event.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, event)
}

// Delete removes a locally created event.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	event, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if event.Imported() {
		return &ValidationError{Message: "imported events are read-only"}
	}
	return s.repo.Delete(ctx, userID, id)
}
