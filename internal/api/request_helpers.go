package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/api/shared"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/query"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Parameters:
//   - r: The HTTP request
//   - paramName: The name of the path parameter to extract
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and appropriate error if parameter is missing or invalid
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// decodeBody decodes and validates a JSON request body. Decode failures wrap
// domain.ErrBadRequest and keep their cause.
func decodeBody(r *http.Request, v any) error {
	if err := shared.DecodeJSON(r, v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", domain.ErrBadRequest, err)
	}
	if err := shared.ValidateRequest(v); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}

// parseQueryOptions builds query options from the GET /tasks query string.
// Non-numeric or negative pagination values and unknown sort keys,
// directions or priorities are rejected. Zero pagination values fall through
// to the engine defaults.
func parseQueryOptions(values url.Values) (query.Options, error) {
	var opts query.Options

	if raw := values.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, domain.NewValidationError("completed", "must be true or false", domain.ErrValidation)
		}
		opts.Completed = &completed
	}

	opts.Tag = values.Get("tag")

	if raw := values.Get("priority"); raw != "" {
		p, err := domain.ParsePriority(raw)
		if err != nil {
			return opts, err
		}
		opts.Priority = &p
	}

	if raw := values.Get("sort"); raw != "" {
		key, dir, err := query.ParseSort(raw)
		if err != nil {
			return opts, err
		}
		opts.SortKey, opts.SortDir = key, dir
	}
	if raw := values.Get("sort_by"); raw != "" {
		key, err := query.ParseSortKey(raw)
		if err != nil {
			return opts, err
		}
		opts.SortKey = key
	}
	if raw := values.Get("order"); raw != "" {
		dir, err := query.ParseSortDir(raw)
		if err != nil {
			return opts, err
		}
		opts.SortDir = dir
	}

	var err error
	if opts.Page, err = parseNonNegativeInt(values, "page"); err != nil {
		return opts, err
	}
	if opts.PerPage, err = parseNonNegativeInt(values, "per_page"); err != nil {
		return opts, err
	}

	return opts, nil
}

// parseNonNegativeInt returns 0 when the parameter is absent.
func parseNonNegativeInt(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer", domain.ErrValidation)
	}
	return n, nil
}

// parseIDList converts id strings to UUIDs, skipping entries that do not
// parse.
func parseIDList(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
