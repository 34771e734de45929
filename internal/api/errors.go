package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskhub/internal/api/shared"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/store"
)

// MapErrorToStatusCode picks the HTTP status for err from the sentinel it
// wraps. Unknown errors are 500.
func MapErrorToStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	// Oversize bodies are checked first: they also wrap ErrBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for err. Validation
// and bad-request messages describe the caller's own input and pass through;
// everything else is replaced by a fixed string.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		maxBytesErr *http.MaxBytesError
		validErr    validator.ValidationErrors
	)

	switch {
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("Payload too large (limit %d bytes)", maxBytesErr.Limit)

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid task id"

	case errors.Is(err, store.ErrNotFound):
		return "Task not found"

	case errors.As(err, &validErr):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrBadRequest):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err, logging the detailed
// error. defaultMsg replaces the safe message for server errors when set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		msg = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError reports the first failed validator field as
// "Invalid <field>: <reason>".
func SanitizeValidationError(err error) string {
	var validErr validator.ValidationErrors
	if errors.As(err, &validErr) && len(validErr) > 0 {
		fe := validErr[0]
		field := strings.ToLower(fe.Field())
		return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid entry"
	default:
		return "validation failed"
	}
}
