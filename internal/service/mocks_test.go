package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore mocks the store.TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, title, description string) (domain.Task, error) {
	args := m.Called(ctx, title, description)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockTaskStore) Get(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (domain.Task, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskStore) DeleteMany(ctx context.Context, ids []uuid.UUID) []uuid.UUID {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID)
}

func (m *MockTaskStore) ReplaceTags(
	ctx context.Context,
	id uuid.UUID,
	raw []string,
) (domain.Task, error) {
	args := m.Called(ctx, id, raw)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockTaskStore) SetPriority(
	ctx context.Context,
	id uuid.UUID,
	raw string,
) (domain.Task, error) {
	args := m.Called(ctx, id, raw)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockTaskStore) Snapshot(ctx context.Context) []domain.Task {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Task)
}

func (m *MockTaskStore) Count(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

// recordingEmitter captures emitted events and can be told to fail.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) last() *events.TaskEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.events) == 0 {
		return nil
	}
	return e.events[len(e.events)-1]
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Type
	}
	return out
}
