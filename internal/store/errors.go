package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the family of lookup misses; entity-specific errors wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrTaskNotFound is returned when no live task has the requested ID,
	// including IDs that were deleted.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)
