package integrations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	calendar "google.golang.org/api/calendar/v3"

	"wellspring/internal/events"
)

func TestReconcileMapsTimedEvent(t *testing.T) {
	repo := events.NewInMemoryRepository()
	rec := NewReconciler(repo)
	userID := uuid.New()

	raw := []*calendar.Event{{
		Id:          "g1",
		Summary:     "Dentist",
		Description: "Annual checkup",
		Location:    "Main St 4",
		ColorId:     "11",
		Start:       &calendar.EventDateTime{DateTime: "2026-03-01T09:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2026-03-01T09:30:00Z"},
	}}

	count, err := rec.Reconcile(context.Background(), userID, raw)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	stored, err := repo.ListImported(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListImported: %v", err)
	}
	event := stored[0]
	if event.Title != "Dentist" {
		t.Errorf("Title = %q", event.Title)
	}
	if event.AllDay {
		t.Error("AllDay = true for timed event")
	}
	wantStart := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if !event.StartsAt.Equal(wantStart) {
		t.Errorf("StartsAt = %v, want %v", event.StartsAt, wantStart)
	}
	if !event.EndsAt.Equal(wantStart.Add(30 * time.Minute)) {
		t.Errorf("EndsAt = %v", event.EndsAt)
	}
	if event.Color == nil || *event.Color != "#00000b" {
		t.Errorf("Color = %v, want #00000b", event.Color)
	}
	if event.GoogleEventID == nil || *event.GoogleEventID != "g1" {
		t.Errorf("GoogleEventID = %v", event.GoogleEventID)
	}
	if event.Description == nil || *event.Description != "Annual checkup" {
		t.Errorf("Description = %v", event.Description)
	}
	if event.Location == nil || *event.Location != "Main St 4" {
		t.Errorf("Location = %v", event.Location)
	}
}

func TestReconcileMapsAllDayEvent(t *testing.T) {
	repo := events.NewInMemoryRepository()
	rec := NewReconciler(repo)
	userID := uuid.New()

	raw := []*calendar.Event{{
		Id:    "g2",
		Start: &calendar.EventDateTime{Date: "2026-03-02"},
		End:   &calendar.EventDateTime{Date: "2026-03-03"},
	}}

	if _, err := rec.Reconcile(context.Background(), userID, raw); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	stored, _ := repo.ListImported(context.Background(), userID)
	event := stored[0]
	if !event.AllDay {
		t.Error("AllDay = false for date-only event")
	}
	if event.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", event.Title)
	}
	if event.Color != nil {
		t.Errorf("Color = %v, want nil", *event.Color)
	}
	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !event.StartsAt.Equal(wantStart) {
		t.Errorf("StartsAt = %v", event.StartsAt)
	}
}

func TestReconcileSkipsEventsWithoutStart(t *testing.T) {
	repo := events.NewInMemoryRepository()
	rec := NewReconciler(repo)
	userID := uuid.New()

	raw := []*calendar.Event{
		{Id: "no-start"},
		{Id: "bad-start", Start: &calendar.EventDateTime{DateTime: "yesterday"}},
		{Id: "ok", Start: &calendar.EventDateTime{DateTime: "2026-03-01T10:00:00Z"}},
	}

	count, err := rec.Reconcile(context.Background(), userID, raw)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	stored, _ := repo.ListImported(context.Background(), userID)
	if len(stored) != 1 || *stored[0].GoogleEventID != "ok" {
		t.Fatalf("stored = %+v", stored)
	}
	// Missing end falls back to the start time.
	if !stored[0].EndsAt.Equal(stored[0].StartsAt) {
		t.Errorf("EndsAt = %v, want %v", stored[0].EndsAt, stored[0].StartsAt)
	}
}

func TestReconcilePreservesLocalEvents(t *testing.T) {
	repo := events.NewInMemoryRepository()
	rec := NewReconciler(repo)
	userID := uuid.New()
	ctx := context.Background()

	local := events.Event{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    "Groceries",
		StartsAt: time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
	if _, err := repo.Create(ctx, local); err != nil {
		t.Fatalf("Create: %v", err)
	}

	prior := "stale"
	imported := events.Event{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         "Old import",
		StartsAt:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		GoogleEventID: &prior,
	}
	if _, err := repo.Create(ctx, imported); err != nil {
		t.Fatalf("Create: %v", err)
	}

	raw := []*calendar.Event{{
		Id:      "fresh",
		Summary: "New import",
		Start:   &calendar.EventDateTime{DateTime: "2026-03-05T09:00:00Z"},
		End:     &calendar.EventDateTime{DateTime: "2026-03-05T10:00:00Z"},
	}}
	if _, err := rec.Reconcile(ctx, userID, raw); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	all, _ := repo.List(ctx, userID, time.Time{}, time.Time{})
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	titles := map[string]bool{}
	for _, e := range all {
		titles[e.Title] = true
	}
	if !titles["Groceries"] || !titles["New import"] || titles["Old import"] {
		t.Errorf("titles = %v", titles)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	repo := events.NewInMemoryRepository()
	rec := NewReconciler(repo)
	userID := uuid.New()
	ctx := context.Background()

	raw := []*calendar.Event{
		{
			Id:      "g1",
			Summary: "Standup",
			ColorId: "5",
			Start:   &calendar.EventDateTime{DateTime: "2026-03-01T09:00:00Z"},
			End:     &calendar.EventDateTime{DateTime: "2026-03-01T09:15:00Z"},
		},
		{
			Id:    "g2",
			Start: &calendar.EventDateTime{Date: "2026-03-02"},
		},
	}

	if _, err := rec.Reconcile(ctx, userID, raw); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	first, _ := repo.ListImported(ctx, userID)

	if _, err := rec.Reconcile(ctx, userID, raw); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	second, _ := repo.ListImported(ctx, userID)

	if len(first) != len(second) {
		t.Fatalf("len mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Title != b.Title || a.AllDay != b.AllDay ||
			!a.StartsAt.Equal(b.StartsAt) || !a.EndsAt.Equal(b.EndsAt) ||
			!equalPtr(a.Color, b.Color) || !equalPtr(a.GoogleEventID, b.GoogleEventID) {
			t.Errorf("event %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestReconcileEmptyWindowClearsImports(t *testing.T) {
	repo := events.NewInMemoryRepository()
	rec := NewReconciler(repo)
	userID := uuid.New()
	ctx := context.Background()

	gid := "gone"
	stale := events.Event{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         "Gone soon",
		StartsAt:      time.Now(),
		EndsAt:        time.Now(),
		GoogleEventID: &gid,
	}
	if _, err := repo.Create(ctx, stale); err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err := rec.Reconcile(ctx, userID, nil)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	imported, _ := repo.ListImported(ctx, userID)
	if len(imported) != 0 {
		t.Errorf("len(imported) = %d, want 0", len(imported))
	}
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
