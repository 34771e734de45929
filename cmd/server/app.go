package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskhub/internal/config"
	"github.com/phrazzld/taskhub/internal/events"
	"github.com/phrazzld/taskhub/internal/platform/logger"
	"github.com/phrazzld/taskhub/internal/platform/memory"
	"github.com/phrazzld/taskhub/internal/service"
	"github.com/phrazzld/taskhub/internal/store"
)

// application holds all the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	taskStore    store.TaskStore
	eventEmitter *events.InMemoryEventEmitter
	taskService  service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(cfg *config.Config) (*application, error) {
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return newApplicationWithLogger(cfg, log)
}

// newApplicationWithLogger wires the application around an existing logger.
func newApplicationWithLogger(cfg *config.Config, log *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"shutdown_timeout", cfg.Server.ShutdownTimeout,
		"max_upload_bytes", cfg.Import.MaxUploadBytes)

	app.taskStore = memory.NewTaskStore(log)

	app.eventEmitter = events.NewInMemoryEventEmitter(log)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(log))

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return app, nil
}
