package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	userID := uuid.New()
	ctx := context.Background()

	task, err := svc.Create(ctx, userID, CreateTaskInput{Title: "  Write report  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Title != "Write report" {
		t.Errorf("Title = %q, want trimmed", task.Title)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want medium default", task.Priority)
	}
	if task.Status != StatusPending {
		t.Errorf("Status = %q, want pending", task.Status)
	}

	if _, err := svc.Create(ctx, userID, CreateTaskInput{Title: "   "}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty title err = %v, want validation error", err)
	}
	if _, err := svc.Create(ctx, userID, CreateTaskInput{Title: "x", Priority: "urgent"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad priority err = %v, want validation error", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	userID := uuid.New()
	ctx := context.Background()

	task, err := svc.Create(ctx, userID, CreateTaskInput{Title: "Laundry"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := StatusInProgress
	updated, err := svc.Update(ctx, userID, task.ID, UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Errorf("Status = %q", updated.Status)
	}

	bad := "done"
	if _, err := svc.Update(ctx, userID, task.ID, UpdateTaskInput{Status: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status err = %v, want validation error", err)
	}
}

func TestUpdateClearsDueDate(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	userID := uuid.New()
	ctx := context.Background()

	due := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, userID, CreateTaskInput{Title: "Taxes", DueDate: &due})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var cleared *time.Time
	updated, err := svc.Update(ctx, userID, task.ID, UpdateTaskInput{DueDate: &cleared})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", updated.DueDate)
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	userID := uuid.New()
	ctx := context.Background()

	later := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	if _, err := svc.Create(ctx, userID, CreateTaskInput{Title: "Undated", Category: "personal"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, userID, CreateTaskInput{Title: "Later", DueDate: &later, Category: "work"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, userID, CreateTaskInput{Title: "Sooner", DueDate: &sooner, Category: "work"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := svc.List(ctx, userID, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].Title != "Sooner" || all[1].Title != "Later" || all[2].Title != "Undated" {
		t.Errorf("order = %q, %q, %q", all[0].Title, all[1].Title, all[2].Title)
	}

	work, err := svc.List(ctx, userID, ListOptions{Category: "work"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(work) != 2 {
		t.Errorf("len(work) = %d, want 2", len(work))
	}

	if _, err := svc.List(ctx, userID, ListOptions{Status: "done"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status filter err = %v, want validation error", err)
	}
}

func TestOwnerScoping(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	owner := uuid.New()
	other := uuid.New()
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, CreateTaskInput{Title: "Private"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, other, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get by other user err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, other, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by other user err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, owner, task.ID); err != nil {
		t.Errorf("Get by owner err = %v", err)
	}
}
