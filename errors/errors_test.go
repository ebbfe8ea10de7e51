package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	logger.IsTest = true
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ValidationError, http.StatusBadRequest},
		{ConflictError, http.StatusBadRequest},
		{NotFoundError, http.StatusNotFound},
		{AuthError, http.StatusUnauthorized},
		{ForbiddenError, http.StatusForbidden},
		{DatabaseError, http.StatusInternalServerError},
		{ServerError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.errType, "msg", "").GetHTTPStatus(), string(tt.errType))
	}
}

func TestConflict_AnswersBadRequest(t *testing.T) {
	// The duplicate-name contract answers 400, not 409.
	err := Conflict("Feedback type with this name already exists")
	assert.Equal(t, http.StatusBadRequest, err.GetHTTPStatus())
	assert.Equal(t, ConflictError, err.Type)
}

func TestValidationFailed_CarriesFields(t *testing.T) {
	err := ValidationFailed(
		FieldError{Field: "message", Message: "Message must be at least 10 characters"},
		FieldError{Field: "rating", Message: "Rating must be between 1 and 5"},
	)
	assert.Equal(t, http.StatusBadRequest, err.GetHTTPStatus())
	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "Validation failed", err.Message)
}

func TestOpaqueNotFoundMessages(t *testing.T) {
	assert.Equal(t, "Feedback type not found", TypeNotFound().Message)
	assert.Equal(t, "Feedback not found or access denied", FeedbackNotFound().Message)
	assert.Equal(t, "User not found", NotFound("User").Message)
}

func TestWrap(t *testing.T) {
	raw := errors.New("connection refused")
	err := Wrap(raw, DatabaseError, "query failed")
	assert.Equal(t, raw, err.Raw)
	assert.Equal(t, "connection refused", err.Detail)
	assert.Contains(t, err.Error(), "query failed")

	assert.Nil(t, Wrap(nil, DatabaseError, "ignored"))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: Feedback type not found", TypeNotFound().Error())
	withDetail := New(ValidationError, "Validation failed", "bad input")
	assert.Equal(t, "VALIDATION_ERROR: Validation failed (bad input)", withDetail.Error())
}
