package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrServiceUnavail}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "order not found"}
	assert.Equal(t, "NOT_FOUND: order not found", appErr.Error())

	wrapped := &AppError{Code: "INTERNAL_ERROR", Message: "boom", Err: fmt.Errorf("redis down")}
	assert.Contains(t, wrapped.Error(), "redis down")
}

func TestNotFound(t *testing.T) {
	err := NotFound("review", "rev-1")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "review")
	assert.Contains(t, err.Message, "rev-1")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("quantity must be between 0 and 99")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, IsValidation(err))
}

func TestInvalidFields(t *testing.T) {
	err := InvalidFields("validation failed", map[string]string{"title": "is required"})
	assert.True(t, IsValidation(err))
	assert.Equal(t, "is required", err.Fields["title"])
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("state backend unavailable", fmt.Errorf("circuit open"))
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.True(t, errors.Is(err, ErrServiceUnavail))
	assert.Contains(t, err.Error(), "circuit open")
}

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Unavailable("saved state could not be deleted", fmt.Errorf("delete key: %w", cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(fmt.Errorf("purge: %w", err)))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("product", "p1"), http.StatusNotFound},
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrServiceUnavail, http.StatusServiceUnavailable},
		{fmt.Errorf("outer: %w", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}
