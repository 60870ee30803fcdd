package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// Service orchestrates validation and persistence for tasks.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    string
	Category    string
}

// UpdateTaskInput carries optional replacement fields for a task.
type UpdateTaskInput struct {
	Title       *string
	Description **string
	DueDate     **time.Time
	Priority    *string
	Status      *string
	Category    *string
}

// Create validates and persists a new task. Priority defaults to medium and
// status starts as pending.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Task{}, &ValidationError{Message: "title is required"}
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !validPriorities[priority] {
		return Task{}, &ValidationError{Message: fmt.Sprintf("invalid priority %q", priority)}
	}

	now := time.Now().UTC()
	task := Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    priority,
		Status:      StatusPending,
		Category:    strings.TrimSpace(input.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Create(ctx, task)
}

// Get returns a single task owned by the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Task, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns the user's tasks, optionally filtered by status and category.
func (s *Service) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]Task, error) {
	if opts.Status != "" && !validStatuses[opts.Status] {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid status %q", opts.Status)}
	}
	return s.repo.List(ctx, userID, opts)
}

// Update modifies a task.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, input UpdateTaskInput) (Task, error) {
	task, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Task{}, &ValidationError{Message: "title is required"}
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Priority != nil {
		if !validPriorities[*input.Priority] {
			return Task{}, &ValidationError{Message: fmt.Sprintf("invalid priority %q", *input.Priority)}
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !validStatuses[*input.Status] {
			return Task{}, &ValidationError{Message: fmt.Sprintf("invalid status %q", *input.Status)}
		}
		task.Status = *input.Status
	}
	if input.Category != nil {
		task.Category = strings.TrimSpace(*input.Category)
	}

	task.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, task)
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
