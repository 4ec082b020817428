package internal

import (
	"errors"
	"net/http"
)

var (
	// Auth Errors
	ErrUnauthorizedError   = errors.New("unauthorized error")
	ErrForbiddenError      = errors.New("forbidden error")
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("not found")

	// JWT Authentication Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidJWTToken         = errors.New("invalid JWT token")
	ErrInvalidAuthUser         = errors.New("invalid authenticated user")
	ErrInternalLoginDisabled   = errors.New("internal login is only available in development mode")

	// User Errors
	ErrUserNotFound    = errors.New("user not found")
	ErrNoUserInContext = errors.New("no user found in request context")

	// Request Errors
	ErrInvalidUUID        = errors.New("invalid uuid")
	ErrInvalidRequestBody = errors.New("invalid request body")

	// Form Errors
	ErrFormNotFound = errors.New("form not found")

	// Question Errors
	ErrQuestionNotFound = errors.New("question not found")

	// Response Errors
	ErrResponseNotFound = errors.New("feedback response not found")

	// Export Errors
	ErrExportTooLarge = errors.New("export exceeds the configured row limit")
)

// StatusFor maps an error to the HTTP status and the message written to the
// client. Errors without a mapping are storage or internal faults.
func StatusFor(err error) (int, string) {
	switch {
	// Not Found
	case errors.Is(err, ErrFormNotFound):
		return http.StatusNotFound, "Form not found"
	case errors.Is(err, ErrQuestionNotFound):
		return http.StatusNotFound, "Question not found"
	case errors.Is(err, ErrResponseNotFound):
		return http.StatusNotFound, "Feedback response not found"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Not found"

	// Auth
	case errors.Is(err, ErrMissingAuthHeader):
		return http.StatusUnauthorized, "Not authorized to access this route"
	case errors.Is(err, ErrInvalidAuthHeaderFormat), errors.Is(err, ErrInvalidJWTToken):
		return http.StatusUnauthorized, "Not authorized to access this route"
	case errors.Is(err, ErrInvalidAuthUser):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, ErrNoUserInContext), errors.Is(err, ErrUnauthorizedError):
		return http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, ErrForbiddenError):
		return http.StatusForbidden, "Not authorized to access this restaurant"
	case errors.Is(err, ErrInternalLoginDisabled):
		return http.StatusForbidden, "Internal login is disabled"

	// Request
	case errors.Is(err, ErrInvalidUUID):
		return http.StatusBadRequest, "Invalid id"
	case errors.Is(err, ErrInvalidRequestBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, ErrExportTooLarge):
		return http.StatusRequestEntityTooLarge, "Export too large"
	}
	return http.StatusInternalServerError, "Internal server error"
}
