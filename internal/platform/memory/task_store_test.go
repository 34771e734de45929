package memory

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/store"
)

// stepClock returns successive instants, optionally moving backwards.
type stepClock struct {
	mu    sync.Mutex
	times []time.Time
	i     int
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[min(c.i, len(c.times)-1)]
	c.i++
	return t
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTaskStore_CreateDefaults(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	task, err := s.Create(ctx, "  Write report  ", "quarterly")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "quarterly", task.Description)
	assert.False(t, task.Completed)
	assert.Empty(t, task.Tags)
	assert.NotNil(t, task.Tags)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, 1, s.Count(ctx))
}

func TestTaskStore_CreateRejectsEmptyTitle(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	_, err := s.Create(context.Background(), "   ", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, s.Count(context.Background()))
}

func TestTaskStore_RetiredIDsAreNeverReissued(t *testing.T) {
	t.Parallel()

	first := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	second := uuid.MustParse("22222222-2222-4222-8222-222222222222")
	seq := []uuid.UUID{first, first, uuid.Nil, second}
	var mu sync.Mutex
	gen := func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		id := seq[0]
		if len(seq) > 1 {
			seq = seq[1:]
		}
		return id
	}

	s := NewTaskStore(nil, WithIDGenerator(gen))
	ctx := context.Background()

	a, err := s.Create(ctx, "A", "")
	require.NoError(t, err)
	require.Equal(t, first, a.ID)
	require.NoError(t, s.Delete(ctx, a.ID))

	b, err := s.Create(ctx, "B", "")
	require.NoError(t, err)
	assert.Equal(t, second, b.ID)

	_, err = s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_DeleteThenGetIsNotFound(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	task, err := s.Create(ctx, "A", "")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, task.ID))

	_, err = s.Get(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Delete(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_UpdatedAtNeverPrecedesCreatedAt(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &stepClock{times: []time.Time{base, base.Add(-time.Hour), base.Add(time.Minute)}}
	s := NewTaskStore(nil, WithClock(clock.Now))
	ctx := context.Background()

	task, err := s.Create(ctx, "A", "")
	require.NoError(t, err)

	updated, err := s.Update(ctx, task.ID, domain.TaskUpdate{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
	assert.Equal(t, base, updated.UpdatedAt)

	updated, err = s.Update(ctx, task.ID, domain.TaskUpdate{Description: strPtr("later")})
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Minute), updated.UpdatedAt)
	assert.Equal(t, base, updated.CreatedAt)
}

func TestTaskStore_UpdatePartialAndFailedUpdateLeavesTaskUnchanged(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	task, err := s.Create(ctx, "A", "desc")
	require.NoError(t, err)

	_, err = s.Update(ctx, task.ID, domain.TaskUpdate{Title: strPtr(" "), Completed: boolPtr(true)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	updated, err := s.Update(ctx, task.ID, domain.TaskUpdate{Title: strPtr("B")})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.False(t, updated.Completed)

	_, err = s.Update(ctx, uuid.New(), domain.TaskUpdate{Title: strPtr("B")})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_ReplaceTags(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	task, err := s.Create(ctx, "A", "")
	require.NoError(t, err)

	got, err := s.ReplaceTags(ctx, task.ID, []string{"Work", " urgent ", "work"})
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "urgent"}, got.Tags)

	got, err = s.ReplaceTags(ctx, task.ID, []string{})
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	_, err = s.ReplaceTags(ctx, task.ID, []string{"ok", " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.ReplaceTags(ctx, task.ID, []string{strings.Repeat("x", domain.MaxTagLength+1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.ReplaceTags(ctx, uuid.New(), []string{"ok"})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = s.ReplaceTags(ctx, uuid.New(), []string{""})
	assert.ErrorIs(t, err, domain.ErrValidation, "tags are validated before lookup")
}

func TestTaskStore_SetPriority(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	task, err := s.Create(ctx, "A", "")
	require.NoError(t, err)

	got, err := s.SetPriority(ctx, task.ID, "HIGH")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, got.Priority)

	_, err = s.SetPriority(ctx, task.ID, "urgent")
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err = s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, got.Priority)

	_, err = s.SetPriority(ctx, uuid.New(), "low")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_DeleteMany(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	a, _ := s.Create(ctx, "A", "")
	b, _ := s.Create(ctx, "B", "")
	c, _ := s.Create(ctx, "C", "")

	removed := s.DeleteMany(ctx, []uuid.UUID{a.ID, uuid.New(), c.ID, a.ID})
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, removed)

	none := s.DeleteMany(ctx, nil)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	snap := s.Snapshot(ctx)
	require.Len(t, snap, 1)
	assert.Equal(t, b.ID, snap[0].ID)
}

func TestTaskStore_SnapshotIsInsertionOrderedCopy(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	titles := []string{"one", "two", "three", "four", "five"}
	for _, title := range titles {
		_, err := s.Create(ctx, title, "")
		require.NoError(t, err)
	}

	snap := s.Snapshot(ctx)
	require.Len(t, snap, len(titles))
	for i, task := range snap {
		assert.Equal(t, titles[i], task.Title)
	}

	_, err := s.ReplaceTags(ctx, snap[0].ID, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, snap[0].Tags, "snapshot must not observe later writes")

	snap[1].Tags = append(snap[1].Tags, "mutated")
	got, err := s.Get(ctx, snap[1].ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags, "callers must not be able to mutate stored tasks")
}

func TestTaskStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	ctx := context.Background()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, workers*perWorker)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				task, err := s.Create(ctx, "task", "")
				if err != nil {
					t.Errorf("create failed: %v", err)
					return
				}
				ids <- task.ID
				_, _ = s.SetPriority(ctx, task.ID, "high")
				_ = s.Snapshot(ctx)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uuid.UUID]struct{})
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Equal(t, workers*perWorker, s.Count(ctx))
}
