package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/phrazzld/taskhub/internal/api/shared"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/importer"
	"github.com/phrazzld/taskhub/internal/platform/logger"
	"github.com/phrazzld/taskhub/internal/service"
)

// ImportFileField is the multipart form field carrying an uploaded CSV file.
const ImportFileField = "file"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
// If logger is nil, a default logger will be used.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

func (h *TaskHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// CreateTask handles POST /tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	opts, err := parseQueryOptions(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res := h.taskService.QueryTasks(r.Context(), opts)
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Items:   res.Items,
		Total:   res.Total,
		Page:    res.Page,
		PerPage: res.PerPage,
	})
}

// BulkDeleteTasks handles DELETE /tasks requests. The body is a JSON array
// of task ids; entries that are not valid ids are ignored.
func (h *TaskHandler) BulkDeleteTasks(w http.ResponseWriter, r *http.Request) {
	var raw []string
	if err := shared.DecodeJSON(r, &raw); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: invalid request body: %w", domain.ErrBadRequest, err), "")
		return
	}

	ids := parseIDList(raw)
	if skipped := len(raw) - len(ids); skipped > 0 {
		h.log(r).Debug("ignored malformed ids in bulk delete", "skipped", skipped)
	}

	deleted := h.taskService.DeleteTasks(r.Context(), ids)
	shared.RespondWithJSON(w, r, http.StatusOK, BulkDeleteResponse{Deleted: deleted})
}

// CountTasks handles GET /tasks/count requests
func (h *TaskHandler) CountTasks(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: h.taskService.CountTasks(r.Context())})
}

// GetStats handles GET /tasks/stats requests
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var resp StatsResponse = h.taskService.Stats(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SearchByTag handles GET /tasks/search/by_tag requests
func (h *TaskHandler) SearchByTag(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if strings.TrimSpace(tag) == "" {
		HandleAPIError(w, r, domain.NewValidationError("tag", "is required", domain.ErrValidation), "")
		return
	}

	items := h.taskService.SearchByTag(r.Context(), tag)
	shared.RespondWithJSON(w, r, http.StatusOK, SearchResponse{Items: items, Total: len(items)})
}

// SearchByPriority handles GET /tasks/search/by_priority requests
func (h *TaskHandler) SearchByPriority(w http.ResponseWriter, r *http.Request) {
	priority := r.URL.Query().Get("priority")
	if strings.TrimSpace(priority) == "" {
		HandleAPIError(w, r, domain.NewValidationError("priority", "is required", domain.ErrValidation), "")
		return
	}

	items, err := h.taskService.SearchByPriority(r.Context(), priority)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SearchResponse{Items: items, Total: len(items)})
}

// ImportTasks handles POST /tasks/import requests. The body is a JSON array
// or, with a text/csv content type, a CSV table.
func (h *TaskHandler) ImportTasks(w http.ResponseWriter, r *http.Request) {
	rows, err := importer.Decode(r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var resp ImportResponse = h.taskService.ImportTasks(r.Context(), rows)
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// ImportTasksFile handles POST /tasks/import/file requests carrying a CSV
// file in the multipart form field "file".
func (h *TaskHandler) ImportTasksFile(w http.ResponseWriter, r *http.Request) {
	rows, err := h.decodeUpload(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var resp ImportResponse = h.taskService.ImportTasks(r.Context(), rows)
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// decodeUpload streams the multipart body and decodes the first part named
// ImportFileField. Other parts are skipped.
func (h *TaskHandler) decodeUpload(r *http.Request) ([]importer.Row, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("%w: expected multipart/form-data with boundary", domain.ErrBadRequest)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file part not found", domain.ErrBadRequest)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading multipart body: %w", domain.ErrBadRequest, err)
		}

		if part.FormName() != ImportFileField {
			_ = part.Close()
			continue
		}

		h.log(r).Debug("decoding uploaded import file", "filename", part.FileName())
		rows, err := importer.DecodeCSV(part)
		_ = part.Close()
		return rows, err
	}
}

// GetTask handles GET /tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: task})
}

// UpdateTask handles PUT /tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req.ToDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: task})
}

// DeleteTask handles DELETE /tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTags handles GET /tasks/{id}/tags requests
func (h *TaskHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tags, err := h.taskService.GetTags(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tags")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TagsResponse{Tags: tags})
}

// ReplaceTags handles PUT /tasks/{id}/tags requests
func (h *TaskHandler) ReplaceTags(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReplaceTagsRequest
	if err := decodeBody(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.ReplaceTags(r.Context(), id, req.Tags)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to replace tags")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: task})
}

// SetPriority handles PUT /tasks/{id}/priority requests
func (h *TaskHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req SetPriorityRequest
	if err := decodeBody(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.SetPriority(r.Context(), id, req.Priority)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to set priority")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: task})
}
