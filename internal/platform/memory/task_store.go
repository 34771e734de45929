package memory

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/platform/logger"
	"github.com/phrazzld/taskhub/internal/store"
)

// record pairs a stored task with its insertion sequence number.
type record struct {
	task domain.Task
	seq  uint64
}

// TaskStore implements store.TaskStore in memory.
type TaskStore struct {
	mu      sync.RWMutex
	tasks   map[uuid.UUID]*record
	retired map[uuid.UUID]struct{}
	nextSeq uint64

	now    func() time.Time
	newID  func() uuid.UUID
	logger *slog.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *TaskStore) {
		s.newID = newID
	}
}

// NewTaskStore creates an empty TaskStore.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger, opts ...Option) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	s := &TaskStore{
		tasks:   make(map[uuid.UUID]*record),
		retired: make(map[uuid.UUID]struct{}),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.New,
		logger:  logger.With(slog.String("component", "task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, title, description string) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := domain.NormalizeTitle(title); err != nil {
		log.Debug("task validation failed during create", slog.String("error", err.Error()))
		return domain.Task{}, err
	}

	s.mu.Lock()
	id := s.allocateID()
	task, err := domain.NewTask(id, title, description, s.now())
	if err != nil {
		s.mu.Unlock()
		log.Warn("failed to build task", slog.String("error", err.Error()))
		return domain.Task{}, err
	}
	s.nextSeq++
	s.tasks[id] = &record{task: *task, seq: s.nextSeq}
	out := task.Clone()
	s.mu.Unlock()

	log.Debug("task created", slog.String("task_id", id.String()))
	return out, nil
}

// allocateID draws identifiers until one is neither live nor retired.
// Callers must hold the write lock.
func (s *TaskStore) allocateID() uuid.UUID {
	for {
		id := s.newID()
		if id == uuid.Nil {
			continue
		}
		if _, live := s.tasks[id]; live {
			continue
		}
		if _, gone := s.retired[id]; gone {
			continue
		}
		return id
	}
}

// Get implements store.TaskStore.Get.
func (s *TaskStore) Get(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	s.mu.RLock()
	rec, ok := s.tasks[id]
	var out domain.Task
	if ok {
		out = rec.task.Clone()
	}
	s.mu.RUnlock()

	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).
			Debug("task not found", slog.String("task_id", id.String()))
		return domain.Task{}, store.ErrTaskNotFound
	}
	return out, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (domain.Task, error) {
	return s.mutate(ctx, "update", id, func(t *domain.Task, now time.Time) error {
		return t.ApplyUpdate(update, now)
	})
}

// ReplaceTags implements store.TaskStore.ReplaceTags.
// Tags are validated before the task is looked up.
func (s *TaskStore) ReplaceTags(ctx context.Context, id uuid.UUID, raw []string) (domain.Task, error) {
	tags, err := domain.NormalizeTags(raw)
	if err != nil {
		return domain.Task{}, err
	}
	return s.mutate(ctx, "replace_tags", id, func(t *domain.Task, now time.Time) error {
		t.Tags = tags
		t.Touch(now)
		return nil
	})
}

// SetPriority implements store.TaskStore.SetPriority.
func (s *TaskStore) SetPriority(ctx context.Context, id uuid.UUID, raw string) (domain.Task, error) {
	priority, err := domain.ParsePriority(raw)
	if err != nil {
		return domain.Task{}, err
	}
	return s.mutate(ctx, "set_priority", id, func(t *domain.Task, now time.Time) error {
		t.Priority = priority
		t.Touch(now)
		return nil
	})
}

// mutate applies fn to a working copy of the task under the write lock and
// commits the copy only when fn succeeds.
func (s *TaskStore) mutate(
	ctx context.Context,
	op string,
	id uuid.UUID,
	fn func(t *domain.Task, now time.Time) error,
) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	rec, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		log.Debug("task not found", slog.String("operation", op), slog.String("task_id", id.String()))
		return domain.Task{}, store.ErrTaskNotFound
	}

	working := rec.task.Clone()
	if err := fn(&working, s.now()); err != nil {
		s.mu.Unlock()
		log.Debug("task mutation rejected",
			slog.String("operation", op),
			slog.String("task_id", id.String()),
			slog.String("error", err.Error()))
		return domain.Task{}, err
	}
	rec.task = working
	out := working.Clone()
	s.mu.Unlock()

	log.Debug("task mutated", slog.String("operation", op), slog.String("task_id", id.String()))
	return out, nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	removed := s.removeLocked(id)
	s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)
	if !removed {
		log.Debug("task not found", slog.String("operation", "delete"), slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}
	log.Debug("task deleted", slog.String("task_id", id.String()))
	return nil
}

// DeleteMany implements store.TaskStore.DeleteMany.
func (s *TaskStore) DeleteMany(ctx context.Context, ids []uuid.UUID) []uuid.UUID {
	removed := []uuid.UUID{}
	if len(ids) == 0 {
		return removed
	}

	s.mu.Lock()
	for _, id := range ids {
		if s.removeLocked(id) {
			removed = append(removed, id)
		}
	}
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("tasks deleted",
		slog.Int("requested", len(ids)),
		slog.Int("removed", len(removed)))
	return removed
}

// removeLocked deletes id and retires it. Callers must hold the write lock.
func (s *TaskStore) removeLocked(id uuid.UUID) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	s.retired[id] = struct{}{}
	return true
}

// Snapshot implements store.TaskStore.Snapshot.
func (s *TaskStore) Snapshot(_ context.Context) []domain.Task {
	s.mu.RLock()
	recs := make([]record, 0, len(s.tasks))
	for _, rec := range s.tasks {
		recs = append(recs, record{task: rec.task.Clone(), seq: rec.seq})
	}
	s.mu.RUnlock()

	slices.SortFunc(recs, func(a, b record) int {
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]domain.Task, len(recs))
	for i, rec := range recs {
		out[i] = rec.task
	}
	return out
}

// Count implements store.TaskStore.Count.
func (s *TaskStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
