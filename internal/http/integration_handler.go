package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"wellspring/internal/auth"
	"wellspring/internal/google"
	"wellspring/internal/integrations"
)

const (
	integrationStateCookieName = "wellspring_link_state"
	integrationStateCookieTTL  = 10 * time.Minute
)

// IntegrationHandler exposes the Google account linking endpoint. All
// operations go through one route dispatched on the action field.
type IntegrationHandler struct {
	service      *integrations.Service
	logger       *slog.Logger
	secureCookie bool
}

// NewIntegrationHandler creates a handler.
func NewIntegrationHandler(service *integrations.Service, env string, logger *slog.Logger) *IntegrationHandler {
	return &IntegrationHandler{
		service:      service,
		logger:       logger,
		secureCookie: env != "development",
	}
}

type integrationRequest struct {
	Action       string `json:"action"`
	Code         string `json:"code,omitempty"`
	State        string `json:"state,omitempty"`
	CalendarSync bool   `json:"calendar,omitempty"`
	FitnessSync  bool   `json:"fitness,omitempty"`
}

// Dispatch handles POST /api/integrations/google
func (h *IntegrationHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	var req integrationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	switch req.Action {
	case "auth":
		h.beginAuth(w, r, user, req)
	case "callback":
		h.completeCallback(w, r, user, req)
	case "sync-calendar":
		h.syncCalendar(w, r, user)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", req.Action))
	}
}

// Status handles GET /api/integrations/google
func (h *IntegrationHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	record, err := h.service.Status(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("integration status", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to load integration")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"integration": record, "linked": record.Linked()})
}

func (h *IntegrationHandler) beginAuth(w http.ResponseWriter, r *http.Request, user *auth.User, req integrationRequest) {
	state, err := auth.GenerateState()
	if err != nil {
		h.logger.Error("failed to generate state", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	authURL, err := h.service.AuthorizationURL(state, req.CalendarSync, req.FitnessSync)
	if err != nil {
		h.writeIntegrationError(w, user, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     integrationStateCookieName,
		Value:    state,
		Path:     "/api/integrations",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(integrationStateCookieTTL.Seconds()),
	})

	writeJSON(w, http.StatusOK, map[string]any{"authUrl": authURL})
}

func (h *IntegrationHandler) completeCallback(w http.ResponseWriter, r *http.Request, user *auth.User, req integrationRequest) {
	stateCookie, err := r.Cookie(integrationStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != req.State {
		h.logger.Warn("integration callback: state mismatch", "user_id", user.ID)
		writeError(w, http.StatusBadRequest, "invalid state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     integrationStateCookieName,
		Value:    "",
		Path:     "/api/integrations",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
	})

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "authorization code is required")
		return
	}

	result, err := h.service.HandleCallback(r.Context(), user.ID, req.Code, req.CalendarSync, req.FitnessSync)
	if err != nil {
		h.writeIntegrationError(w, user, err)
		return
	}

	payload := map[string]any{
		"integration": result.Record,
		"eventsCount": result.EventsCount,
	}
	if result.SyncWarning != nil {
		payload["syncWarning"] = "account linked but the initial calendar sync failed"
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *IntegrationHandler) syncCalendar(w http.ResponseWriter, r *http.Request, user *auth.User) {
	count, err := h.service.SyncCalendar(r.Context(), user.ID)
	if err != nil {
		h.writeIntegrationError(w, user, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"eventsCount": count})
}

// writeIntegrationError maps linking and sync failures onto API responses.
// Provider failures surface their detail; anything unexpected stays opaque.
func (h *IntegrationHandler) writeIntegrationError(w http.ResponseWriter, user *auth.User, err error) {
	var exchangeErr *google.ExchangeError
	var fetchErr *google.FetchError

	switch {
	case errors.Is(err, google.ErrNotConfigured):
		h.logger.Error("google integration not configured")
		writeError(w, http.StatusInternalServerError, "google integration is not configured")
	case errors.Is(err, integrations.ErrNotLinked):
		writeError(w, http.StatusBadRequest, "google account is not linked")
	case errors.Is(err, google.ErrReauthorizationRequired):
		writeErrorDetails(w, http.StatusBadRequest, "google authorization has expired", "reauthorization_required")
	case errors.As(err, &exchangeErr):
		writeErrorDetails(w, http.StatusBadRequest, "authorization code exchange failed", exchangeErr.Code)
	case errors.As(err, &fetchErr):
		h.logger.Warn("calendar fetch failed", "status", fetchErr.StatusCode, "user_id", user.ID)
		writeError(w, http.StatusBadRequest, "failed to fetch calendar events")
	case errors.Is(err, integrations.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("integration request failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
