package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/phrazzld/taskhub/internal/domain"
)

// Pagination limits.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// SortKey selects the field tasks are ordered by.
type SortKey string

// Supported sort keys.
const (
	SortByCreatedAt SortKey = "created_at"
	SortByPriority  SortKey = "priority"
)

// SortDir is the ordering direction.
type SortDir string

// Supported sort directions.
const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Options configures a query. The zero value returns the first page of all
// tasks in creation order.
type Options struct {
	Completed *bool
	Tag       string
	Priority  *domain.Priority
	SortKey   SortKey
	SortDir   SortDir
	Page      int
	PerPage   int
}

// Result is one page of a query.
type Result struct {
	Items   []domain.Task `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// Normalize fills defaults and clamps pagination. Page below 1 becomes 1,
// PerPage below 1 becomes DefaultPerPage and PerPage above MaxPerPage is
// clamped to MaxPerPage.
func (o Options) Normalize() Options {
	if o.SortKey == "" {
		o.SortKey = SortByCreatedAt
	}
	if o.SortDir == "" {
		o.SortDir = SortAsc
	}
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	switch {
	case o.PerPage < 1:
		o.PerPage = DefaultPerPage
	case o.PerPage > MaxPerPage:
		o.PerPage = MaxPerPage
	}
	o.Tag = strings.ToLower(strings.TrimSpace(o.Tag))
	return o
}

// Run filters tasks, counts the matches, stable-sorts them and returns the
// requested page. tasks is not modified.
func Run(tasks []domain.Task, opts Options) Result {
	opts = opts.Normalize()

	matched := Filter(tasks, opts)
	total := len(matched)
	Sort(matched, opts.SortKey, opts.SortDir)

	return Result{
		Items:   paginate(matched, opts.Page, opts.PerPage),
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}
}

// Filter returns the tasks matching every predicate set in opts, preserving
// input order. The result never aliases tasks.
func Filter(tasks []domain.Task, opts Options) []domain.Task {
	tag := strings.ToLower(strings.TrimSpace(opts.Tag))
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if opts.Completed != nil && t.Completed != *opts.Completed {
			continue
		}
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		if opts.Priority != nil && t.Priority != *opts.Priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort orders tasks in place by key. Equal elements keep their relative order.
func Sort(tasks []domain.Task, key SortKey, dir SortDir) {
	compare := compareCreatedAt
	if key == SortByPriority {
		compare = comparePriority
	}
	if dir == SortDesc {
		asc := compare
		compare = func(a, b domain.Task) int { return asc(b, a) }
	}
	slices.SortStableFunc(tasks, compare)
}

func compareCreatedAt(a, b domain.Task) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

func comparePriority(a, b domain.Task) int {
	return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
}

// paginate expects a normalized page and perPage. The page bound is checked
// against the page count so huge page numbers cannot overflow the offset.
func paginate(tasks []domain.Task, page, perPage int) []domain.Task {
	pages := (len(tasks) + perPage - 1) / perPage
	if page-1 >= pages {
		return []domain.Task{}
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(tasks))
	return tasks[start:end]
}

// ParseSortKey validates a sort key name.
func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SortByCreatedAt, SortByPriority:
		return key, nil
	default:
		return "", domain.NewValidationError("sort",
			fmt.Sprintf("must be created_at or priority (got %q)", raw), domain.ErrValidation)
	}
}

// ParseSortDir validates a sort direction name.
func ParseSortDir(raw string) (SortDir, error) {
	switch dir := SortDir(strings.ToLower(strings.TrimSpace(raw))); dir {
	case SortAsc, SortDesc:
		return dir, nil
	default:
		return "", domain.NewValidationError("order",
			fmt.Sprintf("must be asc or desc (got %q)", raw), domain.ErrValidation)
	}
}

// ParseSort parses the combined form "key", "key:asc" or "key:desc".
func ParseSort(raw string) (SortKey, SortDir, error) {
	keyPart, dirPart, hasDir := strings.Cut(raw, ":")
	key, err := ParseSortKey(keyPart)
	if err != nil {
		return "", "", err
	}
	if !hasDir {
		return key, SortAsc, nil
	}
	dir, err := ParseSortDir(dirPart)
	if err != nil {
		return "", "", err
	}
	return key, dir, nil
}
