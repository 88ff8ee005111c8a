package llm

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy is the explicit retry/backoff policy wrapped around the
// single collaborator call site. Kept orthogonal to business logic.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int `koanf:"max_attempts"`

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration `koanf:"initial_backoff"`

	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration `koanf:"max_backoff"`

	// Multiplier scales the backoff between attempts.
	Multiplier float64 `koanf:"multiplier"`

	// Retryable decides whether an error is worth another attempt.
	// Nil retries everything.
	Retryable func(error) bool `koanf:"-"`
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, exponential
// backoff from 1s capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
	}
}

// ApplyDefaults fills unset fields.
func (p *RetryPolicy) ApplyDefaults() {
	defaults := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaults.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = defaults.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaults.MaxBackoff
	}
	if p.Multiplier <= 0 {
		p.Multiplier = defaults.Multiplier
	}
}

// Do runs op under the policy. It returns nil on the first success, the
// last error once attempts are exhausted or the error is not retryable,
// and ctx.Err() if the context is cancelled while backing off.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	backoff := p.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(float64(backoff) * p.Multiplier)
			if backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		}

		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded: %w", p.MaxAttempts, lastErr)
}
