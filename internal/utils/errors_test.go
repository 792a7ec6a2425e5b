package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	assert.Error(t, err)
	assert.Equal(t, "validation failed", err.Error())

	validationErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "validation failed", validationErr.Message)
}

func TestNewValidationErrorf(t *testing.T) {
	err := NewValidationErrorf("weight %s must not be negative, got %.2f", "accuracy", -0.5)

	assert.Error(t, err)
	assert.Equal(t, "weight accuracy must not be negative, got -0.50", err.Error())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("bad input")))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", NewValidationError("bad input"))))
	assert.False(t, IsValidationError(errors.New("plain error")))
	assert.False(t, IsValidationError(nil))
}

func TestErrNotFound_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to get influencer abc: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}
