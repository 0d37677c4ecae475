package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Run("should include kind and message", func(t *testing.T) {
		err := NewAppError(KindNotFound, "pull request not found", nil)
		assert.Equal(t, "NOT_FOUND: pull request not found", err.Error())
	})

	t.Run("should include the underlying error", func(t *testing.T) {
		underlying := errors.New("404 Not Found")
		err := NewAppError(KindNotFound, "pull request not found", underlying)
		assert.Contains(t, err.Error(), "404 Not Found")
	})
}

func TestAppError_WithContext(t *testing.T) {
	t.Run("should not mutate the original error", func(t *testing.T) {
		base := NewAppError(KindRateLimited, "rate limited", nil)
		derived := base.WithContext("retry_after", "30s")

		assert.Nil(t, base.Context)
		require.NotNil(t, derived.Context)
		assert.Equal(t, "30s", derived.Context["retry_after"])
	})

	t.Run("should preserve existing context entries", func(t *testing.T) {
		err := ErrUpstream.
			WithContext("operation", "list PR files").
			WithContext("pr", "acme/widgets#42")

		assert.Equal(t, "list PR files", err.Context["operation"])
		assert.Equal(t, "acme/widgets#42", err.Context["pr"])
	})
}

func TestAppError_Is(t *testing.T) {
	t.Run("sentinel comparison survives WithContext and WithError", func(t *testing.T) {
		err := ErrPullRequestNotFound.
			WithError(errors.New("404")).
			WithContext("pr", "acme/widgets#42")

		assert.ErrorIs(t, err, ErrPullRequestNotFound)
		assert.NotErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrapped sentinel is still matched", func(t *testing.T) {
		err := fmt.Errorf("tool failed: %w", ErrRateLimited.WithContext("retry_after", "10s"))
		assert.ErrorIs(t, err, ErrRateLimited)
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"invalid input sentinel", ErrInvalidPRRef, KindInvalidInput},
		{"not found sentinel", ErrPullRequestNotFound, KindNotFound},
		{"unauthorized sentinel", ErrTokenInvalid, KindUnauthorized},
		{"rate limited sentinel", ErrRateLimited, KindRateLimited},
		{"configuration sentinel", ErrTokenMissing, KindConfiguration},
		{"wrapped app error", fmt.Errorf("wrap: %w", ErrTokenInvalid), KindUnauthorized},
		{"plain error defaults to upstream", errors.New("boom"), KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("connection reset")
	err := ErrUpstream.WithError(underlying)
	assert.ErrorIs(t, err, underlying)
}
