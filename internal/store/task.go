package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
)

// TaskStore defines the interface for the task repository.
// Every method is safe for concurrent use. Returned tasks are copies owned
// by the caller.
type TaskStore interface {
	// Create validates the title and stores a new task with default state.
	// Returns a domain validation error if the title is empty after trimming.
	Create(ctx context.Context, title, description string) (domain.Task, error)

	// Get retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Get(ctx context.Context, id uuid.UUID) (domain.Task, error)

	// Update applies the supplied fields of a partial update.
	// Returns ErrTaskNotFound if the task does not exist and a domain
	// validation error if a supplied title is empty.
	Update(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (domain.Task, error)

	// Delete removes a task. Its ID is retired and never issued again.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMany removes every listed task that exists and returns the IDs
	// actually removed, in request order. Unknown IDs are ignored.
	DeleteMany(ctx context.Context, ids []uuid.UUID) []uuid.UUID

	// ReplaceTags normalizes raw and replaces the task's full tag set.
	ReplaceTags(ctx context.Context, id uuid.UUID, raw []string) (domain.Task, error)

	// SetPriority parses raw case-insensitively and sets the task's priority.
	SetPriority(ctx context.Context, id uuid.UUID, raw string) (domain.Task, error)

	// Snapshot returns a point-in-time copy of every task in insertion order.
	Snapshot(ctx context.Context) []domain.Task

	// Count returns the number of live tasks.
	Count(ctx context.Context) int
}
