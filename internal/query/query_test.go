package query

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

// makeTask builds a task created n minutes after base.
func makeTask(title string, n int, p domain.Priority, completed bool, tags ...string) domain.Task {
	if tags == nil {
		tags = []string{}
	}
	at := base.Add(time.Duration(n) * time.Minute)
	return domain.Task{
		ID:        uuid.New(),
		Title:     title,
		Completed: completed,
		Tags:      tags,
		Priority:  p,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func priorityPtr(p domain.Priority) *domain.Priority { return &p }

func TestRunNoFilterReturnsAll(t *testing.T) {
	tasks := []domain.Task{
		makeTask("a", 0, domain.PriorityLow, false),
		makeTask("b", 1, domain.PriorityHigh, true),
		makeTask("c", 2, domain.PriorityMedium, false),
	}

	res := Run(tasks, Options{})

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"a", "b", "c"}, titles(res.Items))
	assert.Equal(t, DefaultPage, res.Page)
	assert.Equal(t, DefaultPerPage, res.PerPage)
}

func TestRunCompletedFilter(t *testing.T) {
	tasks := []domain.Task{
		makeTask("a", 0, domain.PriorityMedium, true),
		makeTask("b", 1, domain.PriorityMedium, false),
		makeTask("c", 2, domain.PriorityMedium, true),
	}

	done := Run(tasks, Options{Completed: boolPtr(true)})
	require.Equal(t, 2, done.Total)
	for _, task := range done.Items {
		assert.True(t, task.Completed)
	}
	assert.Equal(t, []string{"a", "c"}, titles(done.Items))

	open := Run(tasks, Options{Completed: boolPtr(false)})
	assert.Equal(t, 1, open.Total)
	assert.Equal(t, []string{"b"}, titles(open.Items))
}

func TestRunTagFilterIsCaseInsensitive(t *testing.T) {
	tasks := []domain.Task{
		makeTask("a", 0, domain.PriorityMedium, false, "backend"),
		makeTask("b", 1, domain.PriorityMedium, false, "frontend"),
		makeTask("c", 2, domain.PriorityMedium, false, "backend", "urgent"),
	}

	res := Run(tasks, Options{Tag: "  BackEnd "})

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []string{"a", "c"}, titles(res.Items))
}

func TestRunCombinedFilters(t *testing.T) {
	tasks := []domain.Task{
		makeTask("a", 0, domain.PriorityHigh, false, "ops"),
		makeTask("b", 1, domain.PriorityHigh, true, "ops"),
		makeTask("c", 2, domain.PriorityLow, false, "ops"),
		makeTask("d", 3, domain.PriorityHigh, false, "dev"),
	}

	res := Run(tasks, Options{
		Completed: boolPtr(false),
		Tag:       "ops",
		Priority:  priorityPtr(domain.PriorityHigh),
	})

	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []string{"a"}, titles(res.Items))
}

func TestRunSortByPriorityDescIsStable(t *testing.T) {
	tasks := []domain.Task{
		makeTask("m1", 0, domain.PriorityMedium, false),
		makeTask("l1", 1, domain.PriorityLow, false),
		makeTask("c1", 2, domain.PriorityCritical, false),
		makeTask("h1", 3, domain.PriorityHigh, false),
		makeTask("m2", 4, domain.PriorityMedium, false),
		makeTask("c2", 5, domain.PriorityCritical, false),
	}

	res := Run(tasks, Options{SortKey: SortByPriority, SortDir: SortDesc})

	assert.Equal(t, []string{"c1", "c2", "h1", "m1", "m2", "l1"}, titles(res.Items))

	asc := Run(tasks, Options{SortKey: SortByPriority, SortDir: SortAsc})
	assert.Equal(t, []string{"l1", "m1", "m2", "h1", "c1", "c2"}, titles(asc.Items))
}

func TestRunSortByCreatedAt(t *testing.T) {
	tasks := []domain.Task{
		makeTask("second", 5, domain.PriorityMedium, false),
		makeTask("first", 1, domain.PriorityMedium, false),
		makeTask("tie-a", 9, domain.PriorityMedium, false),
		makeTask("tie-b", 9, domain.PriorityMedium, false),
	}

	asc := Run(tasks, Options{SortKey: SortByCreatedAt})
	assert.Equal(t, []string{"first", "second", "tie-a", "tie-b"}, titles(asc.Items))

	desc := Run(tasks, Options{SortKey: SortByCreatedAt, SortDir: SortDesc})
	assert.Equal(t, []string{"tie-a", "tie-b", "second", "first"}, titles(desc.Items))
}

func TestRunDoesNotModifyInput(t *testing.T) {
	tasks := []domain.Task{
		makeTask("b", 2, domain.PriorityLow, false),
		makeTask("a", 1, domain.PriorityHigh, false),
	}

	Run(tasks, Options{SortKey: SortByPriority, SortDir: SortDesc})

	assert.Equal(t, []string{"b", "a"}, titles(tasks))
}

func TestRunPagination(t *testing.T) {
	tasks := make([]domain.Task, 0, 45)
	for i := range 45 {
		tasks = append(tasks, makeTask(fmt.Sprintf("t%02d", i), i, domain.PriorityMedium, false))
	}

	tests := []struct {
		name        string
		opts        Options
		wantPage    int
		wantPerPage int
		wantFirst   string
		wantLen     int
	}{
		{name: "defaults", opts: Options{}, wantPage: 1, wantPerPage: 20, wantFirst: "t00", wantLen: 20},
		{name: "second page", opts: Options{Page: 2}, wantPage: 2, wantPerPage: 20, wantFirst: "t20", wantLen: 20},
		{name: "partial last page", opts: Options{Page: 3}, wantPage: 3, wantPerPage: 20, wantFirst: "t40", wantLen: 5},
		{name: "per_page clamped", opts: Options{PerPage: 500}, wantPage: 1, wantPerPage: 100, wantFirst: "t00", wantLen: 45},
		{name: "zero page becomes first", opts: Options{Page: 0, PerPage: 10}, wantPage: 1, wantPerPage: 10, wantFirst: "t00", wantLen: 10},
		{name: "negative values normalized", opts: Options{Page: -3, PerPage: -1}, wantPage: 1, wantPerPage: 20, wantFirst: "t00", wantLen: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(tasks, tt.opts)
			assert.Equal(t, 45, res.Total, "total is counted before pagination")
			assert.Equal(t, tt.wantPage, res.Page)
			assert.Equal(t, tt.wantPerPage, res.PerPage)
			require.Len(t, res.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, res.Items[0].Title)
		})
	}
}

func TestRunOutOfRangePage(t *testing.T) {
	tasks := []domain.Task{
		makeTask("a", 0, domain.PriorityMedium, false),
		makeTask("b", 1, domain.PriorityMedium, false),
		makeTask("c", 2, domain.PriorityMedium, false),
	}

	res := Run(tasks, Options{Page: 99, PerPage: 500})

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 100, res.PerPage)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)

	// Pages whose offset would overflow int are still just past the end
	for _, page := range []int{math.MaxInt, math.MaxInt/100 + 1, math.MaxInt / 100, 184467440737095516, 184467440737095517} {
		t.Run(fmt.Sprintf("page %d", page), func(t *testing.T) {
			var res Result
			require.NotPanics(t, func() {
				res = Run(tasks, Options{Page: page, PerPage: 100})
			})
			assert.Equal(t, 3, res.Total)
			assert.Equal(t, page, res.Page)
			assert.NotNil(t, res.Items)
			assert.Empty(t, res.Items)
		})
	}
}

func TestRunLastPartialPage(t *testing.T) {
	tasks := make([]domain.Task, 5)
	for i := range tasks {
		tasks[i] = makeTask(fmt.Sprintf("t%d", i), i, domain.PriorityMedium, false)
	}

	res := Run(tasks, Options{Page: 3, PerPage: 2})
	assert.Equal(t, []string{"t4"}, titles(res.Items))

	res = Run(tasks, Options{Page: 4, PerPage: 2})
	assert.Empty(t, res.Items)
}

func TestRunEmptyInput(t *testing.T) {
	res := Run(nil, Options{Tag: "anything"})

	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw     string
		key     SortKey
		dir     SortDir
		wantErr bool
	}{
		{raw: "created_at", key: SortByCreatedAt, dir: SortAsc},
		{raw: "created_at:desc", key: SortByCreatedAt, dir: SortDesc},
		{raw: "PRIORITY:ASC", key: SortByPriority, dir: SortAsc},
		{raw: "priority:desc", key: SortByPriority, dir: SortDesc},
		{raw: "title", wantErr: true},
		{raw: "priority:sideways", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, dir, err := ParseSort(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.dir, dir)
		})
	}
}
