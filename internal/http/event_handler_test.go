package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"wellspring/internal/events"
)

func TestEventCreateAndList(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.loginTestUser(t)

	body := `{"title":"Dinner","startsAt":"2026-03-01T19:00:00Z","endsAt":"2026-03-01T21:00:00Z","location":"Downtown"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body)), token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = withSession(httptest.NewRequest(http.MethodGet, "/api/events", nil), token)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var payload struct {
		Events []events.Event `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Events) != 1 || payload.Events[0].Title != "Dinner" {
		t.Errorf("events = %+v", payload.Events)
	}
}

func TestEventCreateValidation(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.loginTestUser(t)

	body := `{"title":"  ","startsAt":"2026-03-01T19:00:00Z","endsAt":"2026-03-01T21:00:00Z"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body)), token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEventUpdateImportedRejected(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	user, token := env.loginTestUser(t)

	gid := "g1"
	imported := events.Event{
		ID:            uuid.New(),
		UserID:        user.ID,
		Title:         "Synced",
		StartsAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		GoogleEventID: &gid,
	}
	if _, err := env.eventRepo.Create(context.Background(), imported); err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := `{"title":"Renamed"}`
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/events/"+imported.ID.String(), strings.NewReader(body)), token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "read-only") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestEventGetNotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.loginTestUser(t)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/events/"+uuid.NewString(), nil), token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBearerTokenAuthentication(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.loginTestUser(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestInvalidSessionRejected(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/events", nil), "not-a-session")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
