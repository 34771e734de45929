// Package stats derives aggregate counts from a snapshot of tasks.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/phrazzld/taskhub/internal/domain"
)

// TopTags is the number of entries kept in Summary.TagDistribution.
const TopTags = 10

// TagCount is the number of tasks carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Summary aggregates a task snapshot.
type Summary struct {
	Total           int        `json:"total"`
	Completed       int        `json:"completed"`
	Incomplete      int        `json:"incomplete"`
	TagDistribution []TagCount `json:"tag_distribution"`
	OldestCreatedAt *time.Time `json:"oldest_created_at"`
	NewestCreatedAt *time.Time `json:"newest_created_at"`
}

// Compute builds a Summary. An empty snapshot yields zero counts, an empty
// tag distribution and nil oldest/newest timestamps.
func Compute(tasks []domain.Task) Summary {
	summary := Summary{
		Total:           len(tasks),
		TagDistribution: []TagCount{},
	}

	counts := make(map[string]int)
	var oldest, newest time.Time
	for i, t := range tasks {
		if t.Completed {
			summary.Completed++
		}
		for _, tag := range t.Tags {
			counts[tag]++
		}
		if i == 0 || t.CreatedAt.Before(oldest) {
			oldest = t.CreatedAt
		}
		if i == 0 || t.CreatedAt.After(newest) {
			newest = t.CreatedAt
		}
	}
	summary.Incomplete = summary.Total - summary.Completed

	if len(tasks) > 0 {
		summary.OldestCreatedAt = &oldest
		summary.NewestCreatedAt = &newest
	}

	summary.TagDistribution = topTags(counts, TopTags)
	return summary
}

// topTags orders tags by count descending, then alphabetically, and keeps
// the first n.
func topTags(counts map[string]int, n int) []TagCount {
	dist := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		dist = append(dist, TagCount{Tag: tag, Count: count})
	}
	slices.SortFunc(dist, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	if len(dist) > n {
		dist = dist[:n]
	}
	return dist
}
