package importer

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/platform/logger"
)

// Row is one decoded creation request with its position in the input.
type Row struct {
	Index       int
	Title       string
	Description string
	// Err is set when the row itself could not be decoded. The row is
	// reported as failed without being attempted.
	Err error
}

// RowError records why the row at Index was not imported.
type RowError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// Result summarizes a reconciliation. Errors and Tasks are in input order.
type Result struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []RowError    `json:"errors"`
	Tasks    []domain.Task `json:"tasks"`
}

// TaskCreator creates a single task. store.TaskStore satisfies it.
type TaskCreator interface {
	Create(ctx context.Context, title, description string) (domain.Task, error)
}

// Reconciler applies decoded rows to a TaskCreator.
type Reconciler struct {
	creator TaskCreator
	logger  *slog.Logger
}

// NewReconciler creates a Reconciler.
// If logger is nil, a default logger will be used.
func NewReconciler(creator TaskCreator, logger *slog.Logger) *Reconciler {
	if creator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("creator cannot be nil for Reconciler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		creator: creator,
		logger:  logger.With(slog.String("component", "import_reconciler")),
	}
}

// Reconcile creates a task for every valid row. Each creation is its own
// atomic store operation, so readers are never blocked for the whole batch.
// Cancelling ctx does not stop the batch: rows already started are committed
// and the remaining rows are still processed.
func (r *Reconciler) Reconcile(ctx context.Context, rows []Row) Result {
	log := logger.FromContextOrDefault(ctx, r.logger)

	res := Result{
		Errors: []RowError{},
		Tasks:  make([]domain.Task, 0, len(rows)),
	}

	for _, row := range rows {
		if err := r.apply(ctx, row, &res); err != nil {
			res.Errors = append(res.Errors, RowError{Index: row.Index, Error: err.Error()})
			log.Debug("import row rejected",
				slog.Int("index", row.Index),
				slog.String("error", err.Error()))
		}
	}

	res.Imported = len(res.Tasks)
	res.Failed = len(res.Errors)

	log.Info("import reconciled",
		slog.Int("rows", len(rows)),
		slog.Int("imported", res.Imported),
		slog.Int("failed", res.Failed))
	return res
}

func (r *Reconciler) apply(ctx context.Context, row Row, res *Result) error {
	if row.Err != nil {
		return row.Err
	}
	if _, err := domain.NormalizeTitle(row.Title); err != nil {
		return err
	}
	task, err := r.creator.Create(ctx, row.Title, row.Description)
	if err != nil {
		return err
	}
	res.Tasks = append(res.Tasks, task)
	return nil
}
