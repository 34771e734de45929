package domain

import (
	"encoding/json"
	"strings"
)

// Priority is the urgency of a task. The zero value is not a valid priority;
// use PriorityMedium as the default.
type Priority string

// Possible priority values, in canonical form.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// DefaultPriority is assigned to newly created tasks.
const DefaultPriority = PriorityMedium

// Priorities lists every valid priority ordered from lowest to highest rank.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority matches raw against the canonical priorities, ignoring case
// and surrounding whitespace.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", NewValidationError(
			"priority",
			"must be one of low, medium, high, critical (got '"+raw+"')",
			ErrValidation,
		)
	}
	return p, nil
}

// Rank returns the numeric sort value: low=1, medium=2, high=3, critical=4.
// Invalid priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

// IsValid reports whether p is one of the canonical priorities.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// UnmarshalJSON accepts any casing and stores the canonical form.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewValidationError("priority", "must be a string", ErrValidation)
	}
	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
