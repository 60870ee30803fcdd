package http

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"wellspring/internal/fitness"
)

// FitnessHandler exposes water intake and workout endpoints.
type FitnessHandler struct {
	service *fitness.Service
	logger  *slog.Logger
}

// NewFitnessHandler creates a handler.
func NewFitnessHandler(service *fitness.Service, logger *slog.Logger) *FitnessHandler {
	return &FitnessHandler{service: service, logger: logger}
}

type addWaterRequest struct {
	Date   string `json:"date,omitempty"`
	Amount int    `json:"amount"`
}

// AddWater handles POST /api/fitness/water
func (h *FitnessHandler) AddWater(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	var req addWaterRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	date, ok := parseDateField(w, req.Date)
	if !ok {
		return
	}

	intake, err := h.service.AddWater(r.Context(), user.ID, date, req.Amount)
	if err != nil {
		h.writeFitnessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"waterIntake": intake})
}

// GetWater handles GET /api/fitness/water
func (h *FitnessHandler) GetWater(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	date, ok := parseDateField(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}

	intake, err := h.service.GetWater(r.Context(), user.ID, date)
	if err != nil {
		h.writeFitnessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"waterIntake": intake})
}

type createWorkoutRequest struct {
	Title    string  `json:"title"`
	Category string  `json:"category,omitempty"`
	Date     string  `json:"date,omitempty"`
	Duration int     `json:"duration"`
	Notes    *string `json:"notes,omitempty"`
}

type updateWorkoutRequest struct {
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
	Date     *string `json:"date,omitempty"`
	Duration *int    `json:"duration,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// CreateWorkout handles POST /api/fitness/workouts
func (h *FitnessHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	var req createWorkoutRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	date, ok := parseDateField(w, req.Date)
	if !ok {
		return
	}

	workout, err := h.service.CreateWorkout(r.Context(), user.ID, fitness.CreateWorkoutInput{
		Title:    req.Title,
		Category: req.Category,
		Date:     date,
		Duration: req.Duration,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeFitnessError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"workout": workout})
}

// ListWorkouts handles GET /api/fitness/workouts
func (h *FitnessHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	from, ok := parseDateField(w, r.URL.Query().Get("from"))
	if !ok {
		return
	}
	to, ok := parseDateField(w, r.URL.Query().Get("to"))
	if !ok {
		return
	}

	workouts, err := h.service.ListWorkouts(r.Context(), user.ID, from, to)
	if err != nil {
		h.writeFitnessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
}

// UpdateWorkout handles PUT /api/fitness/workouts/{id}
func (h *FitnessHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateWorkoutRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	input := fitness.UpdateWorkoutInput{
		Title:    req.Title,
		Category: req.Category,
		Duration: req.Duration,
	}
	if req.Date != nil {
		date, ok := parseDateField(w, *req.Date)
		if !ok {
			return
		}
		input.Date = &date
	}
	if req.Notes != nil {
		var notes *string
		if *req.Notes != "" {
			notes = req.Notes
		}
		input.Notes = &notes
	}

	workout, err := h.service.UpdateWorkout(r.Context(), user.ID, id, input)
	if err != nil {
		h.writeFitnessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workout": workout})
}

// DeleteWorkout handles DELETE /api/fitness/workouts/{id}
func (h *FitnessHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteWorkout(r.Context(), user.ID, id); err != nil {
		h.writeFitnessError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FitnessHandler) writeFitnessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fitness.ErrNotFound):
		writeError(w, http.StatusNotFound, "workout not found")
	case errors.Is(err, fitness.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("fitness request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseDateField reads a YYYY-MM-DD value, empty meaning unset.
func parseDateField(w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}
