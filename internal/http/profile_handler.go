package http

import (
	"errors"
	"net/http"

	"log/slog"

	"wellspring/internal/profiles"
)

// ProfileHandler exposes profile endpoints.
type ProfileHandler struct {
	service *profiles.Service
	logger  *slog.Logger
}

// NewProfileHandler creates a handler.
func NewProfileHandler(service *profiles.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

type updateProfileRequest struct {
	DisplayName     *string  `json:"displayName,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	WeightGoal      *float64 `json:"weightGoal,omitempty"`
	BodyFatGoal     *float64 `json:"bodyFatGoal,omitempty"`
	WaterIntakeGoal *int     `json:"waterIntakeGoal,omitempty"`
	FitnessLevel    *string  `json:"fitnessLevel,omitempty"`
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	profile, err := h.service.Get(r.Context(), user.ID, user.Name)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	var req updateProfileRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	input := profiles.UpdateProfileInput{
		DisplayName:     req.DisplayName,
		WaterIntakeGoal: req.WaterIntakeGoal,
	}
	if req.Height != nil {
		input.Height = &req.Height
	}
	if req.WeightGoal != nil {
		input.WeightGoal = &req.WeightGoal
	}
	if req.BodyFatGoal != nil {
		input.BodyFatGoal = &req.BodyFatGoal
	}
	if req.FitnessLevel != nil {
		var level *string
		if *req.FitnessLevel != "" {
			level = req.FitnessLevel
		}
		input.FitnessLevel = &level
	}

	profile, err := h.service.Update(r.Context(), user.ID, user.Name, input)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (h *ProfileHandler) writeProfileError(w http.ResponseWriter, err error) {
	if errors.Is(err, profiles.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("profile request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
