package api

import (
	"errors"
	"net/http"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/service"
	"github.com/reelgen/reelgen-api/internal/service/auth"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// A rejected worker credential is a forbidden callback, not a
	// missing login.
	case errors.Is(err, service.ErrWorkerUnauthorized):
		return http.StatusForbidden

	// Not found errors. Ownership mismatches surface here too.
	case errors.Is(err, service.ErrVideoNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrVideoTextLength),
		errors.Is(err, domain.ErrInvalidVoicePreset),
		errors.Is(err, domain.ErrInvalidSubtitleStyle),
		errors.Is(err, domain.ErrInvalidSubtitlePos),
		errors.Is(err, domain.ErrPasswordLength),
		errors.Is(err, domain.ErrPasswordComplexity):
		return http.StatusBadRequest

	// The queue being down is a temporary condition worth retrying.
	case errors.Is(err, service.ErrQueueUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrWorkerUnauthorized):
		return "Invalid worker credentials"

	case errors.Is(err, service.ErrVideoNotFound):
		return "Video not found"

	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrInvalidTransition):
		return "Status transition not allowed"

	case errors.Is(err, service.ErrUsernameTaken):
		return "Username already taken"

	case errors.Is(err, service.ErrIncorrectPassword):
		return "Incorrect password"

	case errors.Is(err, service.ErrQueueUnavailable):
		return "Video generation is temporarily unavailable, please try again"

	case errors.Is(err, domain.ErrVideoTextLength),
		errors.Is(err, domain.ErrInvalidVoicePreset),
		errors.Is(err, domain.ErrInvalidSubtitleStyle),
		errors.Is(err, domain.ErrInvalidSubtitlePos),
		errors.Is(err, domain.ErrPasswordLength),
		errors.Is(err, domain.ErrPasswordComplexity):
		return err.Error()

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
