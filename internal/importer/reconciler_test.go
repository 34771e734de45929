package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub/internal/domain"
)

// fakeCreator records created tasks and can be told to fail specific titles.
type fakeCreator struct {
	created []domain.Task
	failOn  map[string]error
}

func (f *fakeCreator) Create(_ context.Context, title, description string) (domain.Task, error) {
	if err := f.failOn[title]; err != nil {
		return domain.Task{}, err
	}
	task, err := domain.NewTask(uuid.New(), title, description, time.Now().UTC())
	if err != nil {
		return domain.Task{}, err
	}
	f.created = append(f.created, *task)
	return *task, nil
}

func TestReconcile_PartialFailure(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{}
	r := NewReconciler(creator, nil)

	res := r.Reconcile(context.Background(), []Row{
		{Index: 0, Title: "A"},
		{Index: 1, Title: ""},
		{Index: 2, Title: "B"},
	})

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Contains(t, res.Errors[0].Error, "title")
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, "A", res.Tasks[0].Title)
	assert.Equal(t, "B", res.Tasks[1].Title)
	assert.Len(t, creator.created, 2)
}

func TestReconcile_Empty(t *testing.T) {
	t.Parallel()

	res := NewReconciler(&fakeCreator{}, nil).Reconcile(context.Background(), nil)

	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 0, res.Failed)
	assert.NotNil(t, res.Errors)
	assert.NotNil(t, res.Tasks)
}

func TestReconcile_RowErrorsAndCreatorErrors(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{failOn: map[string]error{"boom": errors.New("store unavailable")}}
	r := NewReconciler(creator, nil)

	res := r.Reconcile(context.Background(), []Row{
		{Index: 0, Err: errors.New("csv parse error: bare quote")},
		{Index: 1, Title: "boom"},
		{Index: 2, Title: "   "},
		{Index: 3, Title: "  ok  ", Description: "d"},
	})

	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 3, res.Failed)
	assert.Equal(t, 4, res.Imported+res.Failed)

	indexes := make([]int, 0, len(res.Errors))
	for _, e := range res.Errors {
		indexes = append(indexes, e.Index)
	}
	assert.Equal(t, []int{0, 1, 2}, indexes)
	assert.Equal(t, "store unavailable", res.Errors[1].Error)

	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "ok", res.Tasks[0].Title)
	assert.Equal(t, "d", res.Tasks[0].Description)
}

func TestNewReconciler_NilCreatorPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewReconciler(nil, nil) })
}
