package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskhub/internal/platform/logger"
)

// LogHandler writes one INFO record per event.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler.
// If logger is nil, a default logger will be used.
func NewLogHandler(l *slog.Logger) *LogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LogHandler{logger: l.With("component", "task_event_log")}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	ids := make([]string, len(event.TaskIDs))
	for i, id := range event.TaskIDs {
		ids[i] = id.String()
	}
	logger.FromContextOrDefault(ctx, h.logger).InfoContext(ctx, "task event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Any("task_ids", ids),
		slog.Time("occurred_at", event.OccurredAt))
	return nil
}
