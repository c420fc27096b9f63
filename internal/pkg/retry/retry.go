// Package retry provides a bounded-retry-with-backoff helper for calls to
// external providers. Attempt count and base delay are caller-supplied; the
// delay doubles after every failed attempt.
package retry

import (
	"context"
	"errors"
	"time"
)

type Config struct {
	Attempts  int
	BaseDelay time.Duration
}

// Retryable marks errors worth another attempt. Errors that do not implement
// it (or report false) abort the loop immediately.
type Retryable interface {
	Retryable() bool
}

func IsRetryable(err error) bool {
	var r Retryable
	return errors.As(err, &r) && r.Retryable()
}

// Do runs fn up to cfg.Attempts times, sleeping cfg.BaseDelay * 2^n between
// attempts. It stops early on success, on a non-retryable error, or when ctx
// is done. The last error is returned after exhaustion.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error, retryable func(error) bool) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if retryable == nil {
		retryable = IsRetryable
	}

	var err error
	delay := cfg.BaseDelay
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == cfg.Attempts {
			break
		}

		delay *= 2
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
