package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUpstreamError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError("export", cause)

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "export is unavailable", err.Error())
	assert.Equal(t, "export", DetailsOf(err)["service"])
}

func TestNewNotRegisteredError(t *testing.T) {
	err := fmt.Errorf("apply: %w", NewNotRegisteredError("exhibitor"))

	assert.ErrorIs(t, err, ErrNotRegistered)
	details := DetailsOf(err)
	assert.Equal(t, true, details["registrationRequired"])
	assert.Equal(t, "exhibitor", details["role"])
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrEventNotFound)

	assert.True(t, Is(err, ErrApplicationNotFound, ErrEventNotFound))
	assert.False(t, Is(err, ErrApplicationNotFound, ErrNotificationNotFound))
	assert.Nil(t, DetailsOf(err))
}
