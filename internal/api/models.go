package api

import (
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/importer"
	"github.com/phrazzld/taskhub/internal/stats"
)

// CreateTaskRequest defines the payload for creating a task.
// Whitespace-only titles pass struct validation and are rejected by the
// domain layer.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
}

// UpdateTaskRequest defines a partial update. Absent fields are unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// ToDomain converts the request to a domain.TaskUpdate.
func (r UpdateTaskRequest) ToDomain() domain.TaskUpdate {
	return domain.TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// ReplaceTagsRequest defines the payload for PUT /tasks/{id}/tags.
// An empty list clears the tags; a missing list is rejected.
type ReplaceTagsRequest struct {
	Tags []string `json:"tags" validate:"required"`
}

// SetPriorityRequest defines the payload for PUT /tasks/{id}/priority.
type SetPriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// TaskEnvelope wraps a single task.
type TaskEnvelope struct {
	Task domain.Task `json:"task"`
}

// TagsResponse lists a task's tags.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// TaskListResponse is a page of tasks.
type TaskListResponse struct {
	Items   []domain.Task `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// SearchResponse lists every match of a search.
type SearchResponse struct {
	Items []domain.Task `json:"items"`
	Total int           `json:"total"`
}

// CountResponse reports the number of live tasks.
type CountResponse struct {
	Count int `json:"count"`
}

// BulkDeleteResponse reports how many tasks a bulk delete removed.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// StatsResponse is the statistics summary.
type StatsResponse = stats.Summary

// ImportResponse is the outcome of an import.
type ImportResponse = importer.Result

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// InfoResponse identifies the running service.
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
