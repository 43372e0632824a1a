package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/mentorloop/backend/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	t.Run("includes wrapped error", func(t *testing.T) {
		err := apperrors.NewInternalError("persist failed", fmt.Errorf("connection reset"))
		assert.Contains(t, err.Error(), "INTERNAL")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := apperrors.NewNotFoundError("mentor not mapped")
		assert.Equal(t, "NOT_FOUND: mentor not mapped", err.Error())
	})
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(apperrors.NewConflictError("slot taken")))
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(fmt.Errorf("plain")))

	wrapped := fmt.Errorf("call failed: %w", apperrors.NewTimeoutError("provider timed out", nil))
	assert.Equal(t, apperrors.ErrorTypeTimeout, apperrors.TypeOf(wrapped))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, apperrors.IsRetryable(apperrors.NewRateLimitedError("throttled", 429)))
	assert.False(t, apperrors.IsRetryable(apperrors.NewUpstreamError("bad gateway", 502, "oops")))
	assert.False(t, apperrors.IsRetryable(apperrors.NewTimeoutError("slow", nil)))
	assert.False(t, apperrors.IsRetryable(fmt.Errorf("plain")))
}
