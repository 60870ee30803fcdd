package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wellspring/internal/tasks"
)

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.loginTestUser(t)

	body := `{"title":"Write report","priority":"high","category":"work","dueDate":"2026-04-01T12:00:00Z"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body)), token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Task tasks.Task `json:"task"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Task.Status != tasks.StatusPending {
		t.Errorf("status = %q, want pending", created.Task.Status)
	}

	update := `{"status":"completed"}`
	req = withSession(httptest.NewRequest(http.MethodPut, "/api/tasks/"+created.Task.ID.String(), strings.NewReader(update)), token)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = withSession(httptest.NewRequest(http.MethodGet, "/api/tasks?status=completed", nil), token)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var listed struct {
		Tasks []tasks.Task `json:"tasks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(listed.Tasks))
	}

	req = withSession(httptest.NewRequest(http.MethodDelete, "/api/tasks/"+created.Task.ID.String(), nil), token)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestTaskInvalidPriority(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.loginTestUser(t)

	body := `{"title":"x","priority":"urgent"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body)), token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
