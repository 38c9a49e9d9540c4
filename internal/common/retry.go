package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/finanmaster/internal/service"
)

var (
	// ErrRateLimit indicates that the API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError attaches an explicit retry decision to an error. It wins
// over whatever the wrapped error would imply.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// permanent reports errors that fail the same way on every attempt: an
// explicit no, bad input, an expired session, or a 4xx other than 429.
func permanent(err error) bool {
	var re *RetryableError
	if errors.As(err, &re) {
		return !re.Retryable
	}
	if errors.Is(err, ErrAuthRequired) {
		return true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status != 429 && se.Status < 500
	}
	return false
}

func withDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	return opts
}

// backoff is the wait before the given retry (1-based), capped at MaxDelay.
// A rate-limited call waits the full MaxDelay.
func backoff(opts service.RetryOptions, retry int, err error) time.Duration {
	if errors.Is(err, ErrRateLimit) {
		return opts.MaxDelay
	}
	d := float64(opts.InitialDelay)
	for i := 1; i < retry; i++ {
		d *= opts.Multiplier
		if d >= float64(opts.MaxDelay) {
			return opts.MaxDelay
		}
	}
	return time.Duration(d)
}

// WithRetry runs operation until it succeeds, fails permanently or runs out
// of attempts. Only the Sheets export retries; gateway calls never do.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withDefaults(opts)

	var err error
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if permanent(err) {
			return err
		}
		if attempt == opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		delay := backoff(opts, attempt, err)
		slog.Warn("operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
