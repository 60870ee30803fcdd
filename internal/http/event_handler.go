package http

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wellspring/internal/events"
)

// EventHandler exposes calendar event CRUD endpoints.
type EventHandler struct {
	service *events.Service
	logger  *slog.Logger
}

// NewEventHandler creates a handler.
func NewEventHandler(service *events.Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

type createEventRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Location    *string   `json:"location,omitempty"`
	AllDay      bool      `json:"isAllDay,omitempty"`
	Color       *string   `json:"color,omitempty"`
}

type updateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
	Location    *string    `json:"location,omitempty"`
	AllDay      *bool      `json:"isAllDay,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	from, ok := parseTimeParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(w, r, "to")
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), user.ID, from, to)
	if err != nil {
		h.writeEventError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": list})
}

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	var req createEventRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	event, err := h.service.Create(r.Context(), user.ID, events.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		AllDay:      req.AllDay,
		Color:       req.Color,
	})
	if err != nil {
		h.writeEventError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": event})
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	event, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		h.writeEventError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// Update handles PUT /api/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateEventRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	input := events.UpdateEventInput{
		Title:    req.Title,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		AllDay:   req.AllDay,
	}
	if req.Description != nil {
		input.Description = nullable(*req.Description)
	}
	if req.Location != nil {
		input.Location = nullable(*req.Location)
	}
	if req.Color != nil {
		input.Color = nullable(*req.Color)
	}

	event, err := h.service.Update(r.Context(), user.ID, id, input)
	if err != nil {
		h.writeEventError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// Delete handles DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		h.writeEventError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, events.ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, events.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("event request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseIDParam reads the {id} route parameter as a UUID.
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// parseTimeParam reads an optional RFC 3339 query parameter.
func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return time.Time{}, false
	}
	return t, true
}

// nullable maps an incoming string onto an optional column value: an empty
// string clears the field.
func nullable(s string) **string {
	var v *string
	if s != "" {
		v = &s
	}
	return &v
}
