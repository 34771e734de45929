package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/events"
	"github.com/phrazzld/taskhub/internal/importer"
	"github.com/phrazzld/taskhub/internal/platform/logger"
	"github.com/phrazzld/taskhub/internal/query"
	"github.com/phrazzld/taskhub/internal/stats"
	"github.com/phrazzld/taskhub/internal/store"
)

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask creates a task with default state.
	CreateTask(ctx context.Context, title, description string) (domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id uuid.UUID) (domain.Task, error)

	// UpdateTask applies a partial update.
	UpdateTask(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// DeleteTasks removes every listed task that exists and returns how many
	// were removed.
	DeleteTasks(ctx context.Context, ids []uuid.UUID) int

	// GetTags returns the task's tag set.
	GetTags(ctx context.Context, id uuid.UUID) ([]string, error)

	// ReplaceTags replaces the task's full tag set.
	ReplaceTags(ctx context.Context, id uuid.UUID, tags []string) (domain.Task, error)

	// SetPriority sets the task's priority from its case-insensitive name.
	SetPriority(ctx context.Context, id uuid.UUID, priority string) (domain.Task, error)

	// QueryTasks filters, sorts and paginates a snapshot of all tasks.
	QueryTasks(ctx context.Context, opts query.Options) query.Result

	// SearchByTag returns every task carrying tag, oldest first.
	SearchByTag(ctx context.Context, tag string) []domain.Task

	// SearchByPriority returns every task with the given priority, oldest first.
	SearchByPriority(ctx context.Context, priority string) ([]domain.Task, error)

	// Stats aggregates a snapshot of all tasks.
	Stats(ctx context.Context) stats.Summary

	// CountTasks returns the number of live tasks.
	CountTasks(ctx context.Context) int

	// ImportTasks creates a task for every valid row.
	ImportTasks(ctx context.Context, rows []importer.Row) importer.Result
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "replace_tags")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Not-found and validation errors are returned unchanged so the API layer
// can map them directly.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrBadRequest) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore    store.TaskStore
	reconciler   *importer.Reconciler
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewTaskService creates a new TaskService
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore:    taskStore,
		reconciler:   importer.NewReconciler(taskStore, logger),
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "task_service"),
	}, nil
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// emit publishes an event. Delivery failures are logged and never fail the
// mutation that has already been committed.
func (s *taskServiceImpl) emit(ctx context.Context, eventType string, ids []uuid.UUID, payload any) {
	event, err := events.NewTaskEvent(eventType, ids, payload)
	if err != nil {
		s.log(ctx).Error("failed to create task event",
			"error", err,
			"event_type", eventType)
		return
	}
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.log(ctx).Warn("failed to emit task event",
			"error", err,
			"event_type", eventType,
			"event_id", event.ID)
	}
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	title, description string,
) (domain.Task, error) {
	task, err := s.taskStore.Create(ctx, title, description)
	if err != nil {
		s.log(ctx).Debug("failed to create task", "error", err)
		return domain.Task{}, NewTaskServiceError("create_task", "failed to create task", err)
	}

	s.log(ctx).Info("task created", "task_id", task.ID)
	s.emit(ctx, events.TypeTaskCreated, []uuid.UUID{task.ID}, nil)
	return task, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	task, err := s.taskStore.Get(ctx, id)
	if err != nil {
		return domain.Task{}, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (domain.Task, error) {
	task, err := s.taskStore.Update(ctx, id, update)
	if err != nil {
		s.log(ctx).Debug("failed to update task", "error", err, "task_id", id)
		return domain.Task{}, NewTaskServiceError("update_task", "failed to update task", err)
	}

	s.log(ctx).Info("task updated", "task_id", id)
	s.emit(ctx, events.TypeTaskUpdated, []uuid.UUID{id}, struct {
		Fields []string `json:"fields"`
	}{Fields: updatedFields(update)})
	return task, nil
}

func updatedFields(u domain.TaskUpdate) []string {
	fields := make([]string, 0, 3)
	if u.Title != nil {
		fields = append(fields, "title")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Completed != nil {
		fields = append(fields, "completed")
	}
	return fields
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, id); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.log(ctx).Info("task deleted", "task_id", id)
	s.emit(ctx, events.TypeTaskDeleted, []uuid.UUID{id}, nil)
	return nil
}

// DeleteTasks implements TaskService.
func (s *taskServiceImpl) DeleteTasks(ctx context.Context, ids []uuid.UUID) int {
	removed := s.taskStore.DeleteMany(ctx, ids)

	s.log(ctx).Info("tasks deleted", "requested", len(ids), "removed", len(removed))
	if len(removed) > 0 {
		s.emit(ctx, events.TypeTaskDeleted, removed, struct {
			Removed int `json:"removed"`
		}{Removed: len(removed)})
	}
	return len(removed)
}

// GetTags implements TaskService.
func (s *taskServiceImpl) GetTags(ctx context.Context, id uuid.UUID) ([]string, error) {
	task, err := s.taskStore.Get(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_tags", "failed to retrieve task", err)
	}
	return task.Tags, nil
}

// ReplaceTags implements TaskService.
func (s *taskServiceImpl) ReplaceTags(
	ctx context.Context,
	id uuid.UUID,
	tags []string,
) (domain.Task, error) {
	task, err := s.taskStore.ReplaceTags(ctx, id, tags)
	if err != nil {
		s.log(ctx).Debug("failed to replace tags", "error", err, "task_id", id)
		return domain.Task{}, NewTaskServiceError("replace_tags", "failed to replace tags", err)
	}

	s.log(ctx).Info("task tags replaced", "task_id", id, "tag_count", len(task.Tags))
	s.emit(ctx, events.TypeTaskUpdated, []uuid.UUID{id}, struct {
		Fields []string `json:"fields"`
	}{Fields: []string{"tags"}})
	return task, nil
}

// SetPriority implements TaskService.
func (s *taskServiceImpl) SetPriority(
	ctx context.Context,
	id uuid.UUID,
	priority string,
) (domain.Task, error) {
	task, err := s.taskStore.SetPriority(ctx, id, priority)
	if err != nil {
		s.log(ctx).Debug("failed to set priority", "error", err, "task_id", id)
		return domain.Task{}, NewTaskServiceError("set_priority", "failed to set priority", err)
	}

	s.log(ctx).Info("task priority set", "task_id", id, "priority", task.Priority)
	s.emit(ctx, events.TypeTaskUpdated, []uuid.UUID{id}, struct {
		Fields []string `json:"fields"`
	}{Fields: []string{"priority"}})
	return task, nil
}

// QueryTasks implements TaskService.
func (s *taskServiceImpl) QueryTasks(ctx context.Context, opts query.Options) query.Result {
	res := query.Run(s.taskStore.Snapshot(ctx), opts)
	s.log(ctx).Debug("tasks queried",
		"total", res.Total,
		"page", res.Page,
		"per_page", res.PerPage)
	return res
}

// SearchByTag implements TaskService.
func (s *taskServiceImpl) SearchByTag(ctx context.Context, tag string) []domain.Task {
	matched := query.Filter(s.taskStore.Snapshot(ctx), query.Options{Tag: tag})
	query.Sort(matched, query.SortByCreatedAt, query.SortAsc)
	return matched
}

// SearchByPriority implements TaskService.
func (s *taskServiceImpl) SearchByPriority(
	ctx context.Context,
	priority string,
) ([]domain.Task, error) {
	p, err := domain.ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	matched := query.Filter(s.taskStore.Snapshot(ctx), query.Options{Priority: &p})
	query.Sort(matched, query.SortByCreatedAt, query.SortAsc)
	return matched, nil
}

// Stats implements TaskService.
func (s *taskServiceImpl) Stats(ctx context.Context) stats.Summary {
	return stats.Compute(s.taskStore.Snapshot(ctx))
}

// CountTasks implements TaskService.
func (s *taskServiceImpl) CountTasks(ctx context.Context) int {
	return s.taskStore.Count(ctx)
}

// ImportTasks implements TaskService.
func (s *taskServiceImpl) ImportTasks(ctx context.Context, rows []importer.Row) importer.Result {
	res := s.reconciler.Reconcile(ctx, rows)

	if res.Imported > 0 {
		ids := make([]uuid.UUID, len(res.Tasks))
		for i, t := range res.Tasks {
			ids[i] = t.ID
		}
		s.emit(ctx, events.TypeTasksImported, ids, struct {
			Imported int `json:"imported"`
			Failed   int `json:"failed"`
		}{Imported: res.Imported, Failed: res.Failed})
	}
	return res
}
