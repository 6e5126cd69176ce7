package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("load quote: %w", NewNotFoundError("Quote"))
	got := GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, got.Code)
	assert.Equal(t, "Quote not found", got.Message)

	raw := GetAppError(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, raw.Code)
	assert.Equal(t, "Internal server error", raw.Message)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, NewUnprocessableError("Only completed jobs can be invoiced").Code)
	assert.Equal(t, http.StatusForbidden, NewForbiddenError("Owner only").Code)
	assert.True(t, IsAppError(ErrTenantRequired))
	assert.False(t, IsAppError(errors.New("x")))

	v := NewValidationError([]FieldError{{Field: "email", Message: "required"}})
	assert.Len(t, v.Errors, 1)
}
