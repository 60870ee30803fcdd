package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

func TestFetchEventsFollowsPagination(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/calendars/primary/events") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Fatalf("expected bearer access token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("timeMin") == "" || q.Get("timeMax") == "" {
			t.Fatal("expected timeMin and timeMax to be set")
		}

		requests++
		w.Header().Set("Content-Type", "application/json")
		switch q.Get("pageToken") {
		case "":
			_ = json.NewEncoder(w).Encode(calendar.Events{
				Items:         []*calendar.Event{{Id: "g1", Summary: "First"}},
				NextPageToken: "page-2",
			})
		case "page-2":
			_ = json.NewEncoder(w).Encode(calendar.Events{
				Items: []*calendar.Event{{Id: "g2", Summary: "Second"}},
			})
		default:
			t.Fatalf("unexpected page token %q", q.Get("pageToken"))
		}
	}))
	defer server.Close()

	client := NewCalendarClient(server.Client(), WithCalendarEndpoint(server.URL))

	now := time.Now()
	events, err := client.FetchEvents(context.Background(), "access-1", now.AddDate(0, -1, 0), now.AddDate(0, 3, 0))
	if err != nil {
		t.Fatalf("FetchEvents returned error: %v", err)
	}

	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}
	if len(events) != 2 || events[0].Id != "g1" || events[1].Id != "g2" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestFetchEventsEmptyWindowIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(calendar.Events{})
	}))
	defer server.Close()

	client := NewCalendarClient(server.Client(), WithCalendarEndpoint(server.URL))

	events, err := client.FetchEvents(context.Background(), "access-1", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("FetchEvents returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestFetchEventsSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	}))
	defer server.Close()

	client := NewCalendarClient(server.Client(), WithCalendarEndpoint(server.URL))

	_, err := client.FetchEvents(context.Background(), "expired", time.Now(), time.Now())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", fetchErr.StatusCode)
	}
}
