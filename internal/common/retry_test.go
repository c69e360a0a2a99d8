package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")
	fast := RetryOptions{InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("single attempt returns the error untouched", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errBoom
		}, RetryOptions{})

		assert.Equal(t, 1, calls)
		assert.Same(t, errBoom, err)
	})

	t.Run("retries until success", func(t *testing.T) {
		opts := fast
		opts.MaxAttempts = 3
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errBoom
			}
			return nil
		}, opts)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted attempts wrap both errors", func(t *testing.T) {
		opts := fast
		opts.MaxAttempts = 2
		err := WithRetry(context.Background(), func() error { return errBoom }, opts)

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		opts := fast
		opts.MaxAttempts = 5
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errBoom, Retryable: false}
		}, opts)

		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("canceled context stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Hour}
		err := WithRetry(ctx, func() error { return errBoom }, opts)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x")}))
	assert.False(t, IsRetryable(errors.New("plain")))
}
