package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	err := Validation("file_name", "must not be empty")

	assert.True(t, IsValidation(err))
	assert.Equal(t, "invalid file_name: must not be empty", err.Error())

	// survives wrapping
	wrapped := fmt.Errorf("create asset: %w", err)
	assert.True(t, IsValidation(wrapped))

	assert.False(t, IsValidation(errors.New("other")))
	assert.False(t, IsValidation(ErrNotFound))
}

func TestStore(t *testing.T) {
	assert.NoError(t, Store(nil))

	// typed errors pass through untouched
	assert.Equal(t, ErrNotFound, Store(ErrNotFound))
	assert.Equal(t, ErrConflict, Store(ErrConflict))
	ve := Validation("x", "y")
	assert.Equal(t, ve, Store(ve))

	// anything else gets wrapped exactly once
	cause := errors.New("connection refused")
	wrapped := Store(cause)
	var se *StoreError
	assert.True(t, errors.As(wrapped, &se))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, wrapped, Store(wrapped))
}
