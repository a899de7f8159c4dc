package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

// Default retry behaviour for transient gateway failures.
const (
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 500 * time.Millisecond
)

// retryPolicy retries an operation a bounded number of times with doubling
// backoff. Invalid input and context cancellation are never retried.
type retryPolicy struct {
	attempts int
	backoff  time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		attempts: defaultRetryAttempts,
		backoff:  defaultRetryBackoff,
	}
}

// do runs op until it succeeds or the attempts are exhausted, returning the
// last error.
func (p retryPolicy) do(ctx context.Context, op func() error) error {
	var lastErr error
	delay := p.backoff

	for attempt := 1; attempt <= p.attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == p.attempts {
			break
		}

		logger.Warn("Attempt %d/%d failed, retrying in %s: %v", attempt, p.attempts, delay, lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return lastErr
}

// retryable reports whether an error is worth retrying.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDimensionMismatch),
		errors.Is(err, domain.ErrChunking):
		return false
	}
	return true
}
