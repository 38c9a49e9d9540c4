package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/finanmaster/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "network", err: &NetworkError{Err: errors.New("refused"), Method: "GET", URL: "/x"}, want: true},
		{name: "server 503", err: &ServerError{Status: 503}, want: true},
		{name: "server 429", err: &ServerError{Status: 429}, want: true},
		{name: "server 400", err: &ServerError{Status: 400, Message: "bad"}, want: false},
		{name: "auth", err: ErrAuthRequired, want: false},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: true},
		{name: "explicit no", err: &RetryableError{Err: context.DeadlineExceeded, Retryable: false}, want: false},
		{name: "explicit yes", err: &RetryableError{Err: errors.New("flaky"), Retryable: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Categoria é obrigatória.", Message(&ServerError{Status: 400, Message: "Categoria é obrigatória."}))
	assert.Equal(t, "server error (status 500)", Message(&ServerError{Status: 500}))
	assert.Equal(t, "Falhou", Message(NewUserError("Falhou", errors.New("boom"))))
	assert.Contains(t, Message(fmt.Errorf("load: %w", ErrAuthRequired)), "finan login")
	assert.Contains(t, Message(&NetworkError{Err: errors.New("refused")}), "conectar")
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	require.NoError(t, v.OrNil())

	v.Add("value", "not a number")
	v.Add("date", "use YYYY-MM-DD")

	err := v.OrNil()
	require.Error(t, err)
	assert.Equal(t, "invalid input: date: use YYYY-MM-DD; value: not a number", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(err, &target))
}

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &RetryableError{Err: errors.New("flaky"), Retryable: true}
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent failure", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("forbidden"), Retryable: false}
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		cause := &ServerError{Status: 503}
		err := WithRetry(context.Background(), func() error {
			calls++
			return cause
		}, opts)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, calls)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		for _, failure := range []error{
			&ServerError{Status: 400, Message: "Categoria é obrigatória."},
			ErrAuthRequired,
			&ValidationError{Fields: map[string]string{"value": "inválido"}},
		} {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				return failure
			}, opts)
			assert.ErrorIs(t, err, failure)
			assert.Equal(t, 1, calls)
		}
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			cancel()
			return &ServerError{Status: 502}
		}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestBackoff(t *testing.T) {
	opts := withDefaults(service.RetryOptions{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second})
	flaky := errors.New("flaky")

	assert.Equal(t, 100*time.Millisecond, backoff(opts, 1, flaky))
	assert.Equal(t, 200*time.Millisecond, backoff(opts, 2, flaky))
	assert.Equal(t, 800*time.Millisecond, backoff(opts, 4, flaky))
	assert.Equal(t, time.Second, backoff(opts, 5, flaky))
	assert.Equal(t, time.Second, backoff(opts, 1, fmt.Errorf("sheets: %w", ErrRateLimit)))
}

func TestMatchAny(t *testing.T) {
	patterns, err := CompilePatterns([]string{`(?i)^posso ajudar`, `^\s*$`})
	require.NoError(t, err)

	assert.True(t, MatchAny(patterns, "Posso ajudar você com análises"))
	assert.True(t, MatchAny(patterns, "   "))
	assert.False(t, MatchAny(patterns, "Seu saldo atual é R$ 100,00"))

	_, err = CompilePatterns([]string{"("})
	assert.Error(t, err)
}
