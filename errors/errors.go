// Package errors defines the structured application error taxonomy and the
// helpers handlers use to signal failures to the error-handling middleware.
package errors

import (
	"fmt"
	"net/http"

	"github.com/feedbackhq/feedback-collector/logger"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND"
	AuthError       ErrorType = "AUTHENTICATION_ERROR"
	ForbiddenError  ErrorType = "FORBIDDEN"
	ConflictError   ErrorType = "CONFLICT"
	DatabaseError   ErrorType = "DATABASE_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
)

// FieldError describes a single failing request field. Validation errors
// carry one entry per field so clients can render them next to inputs.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error.
type AppError struct {
	Type       ErrorType    `json:"type"`
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Detail     string       `json:"detail,omitempty"`
	Fields     []FieldError `json:"errors,omitempty"`
	HTTPStatus int          `json:"-"`
	Raw        error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// GetHTTPStatus returns the HTTP status code associated with the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// ValidationFailed reports itemized per-field validation failures.
func ValidationFailed(fields ...FieldError) *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       "validation_failed",
		Message:    "Validation failed",
		Fields:     fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidPayload reports a request body that could not be bound at all.
func InvalidPayload(detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       "invalid_request_payload",
		Message:    "Failed to bind request",
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidFeedbackType reports a submission against an unknown or inactive
// feedback type. Distinct from field validation so clients can tell the two
// apart.
func InvalidFeedbackType() *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       "invalid_feedback_type",
		Message:    "Invalid or inactive feedback type",
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound reports an absent resource. Also used when the resource exists but
// is owned by another admin, so callers cannot probe for foreign ids.
func NotFound(entity string) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
	}
}

// TypeNotFound reports an absent or foreign-owned feedback type.
func TypeNotFound() *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    "Feedback type not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// FeedbackNotFound reports absent or foreign-owned feedback. The message does
// not distinguish the two cases.
func FeedbackNotFound() *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    "Feedback not found or access denied",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict reports a duplicate-name collision. These answer 400 rather than
// 409; the frontend depends on it.
func Conflict(message string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// AuthenticationFailed reports a missing, malformed, expired, or otherwise
// unusable credential.
func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Unauthorized reports an authentication failure with a machine-readable code.
func Unauthorized(code, message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden reports an authenticated caller lacking permission.
func Forbidden(message string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewDatabaseError logs the raw storage error and returns a sanitized one.
func NewDatabaseError(err error) *AppError {
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// InternalServerError reports an unexpected failure with a generic message.
func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, ConflictError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
