package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is nil.
	ErrTaskIDEmpty = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)

	// ErrTaskTimestamps is returned when updated_at precedes created_at.
	ErrTaskTimestamps = fmt.Errorf("%w: task updated_at cannot precede created_at", ErrValidation)
)

// Task is a single tracked item. Values handed out by the store are copies;
// mutating one never affects the stored task.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Tags        []string  `json:"tags"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// NewTask builds a task with default state: not completed, medium priority
// and no tags. The title is trimmed and must not be empty.
func NewTask(id uuid.UUID, title, description string, now time.Time) (*Task, error) {
	normalized, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:          id,
		Title:       normalized,
		Description: description,
		Completed:   false,
		Tags:        []string{},
		Priority:    DefaultPriority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task invariants.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "must not be empty", ErrValidation)
	}

	if !t.Priority.IsValid() {
		return NewValidationError("priority", "is not a known priority", ErrValidation)
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return ErrTaskTimestamps
	}

	return nil
}

// ApplyUpdate validates u and applies the supplied fields. On validation
// failure the task is left unchanged.
func (t *Task) ApplyUpdate(u TaskUpdate, now time.Time) error {
	var title string
	if u.Title != nil {
		normalized, err := NormalizeTitle(*u.Title)
		if err != nil {
			return err
		}
		title = normalized
	}

	if u.Title != nil {
		t.Title = title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	t.Touch(now)
	return nil
}

// Touch refreshes UpdatedAt, never letting it fall behind CreatedAt.
func (t *Task) Touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// HasTag reports whether the task carries tag, compared case-insensitively.
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}
