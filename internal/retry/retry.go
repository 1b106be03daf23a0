// File: internal/retry/retry.go

// Package retry provides the two waiting strategies the workflow engine
// builds on: bounded-count retry for actions whose absence of effect is
// expected and reportable, and bounded-time polling for conditions whose
// duration is controlled entirely by the target application.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrExhausted is returned by Spec.Do after the final failed attempt.
var ErrExhausted = errors.New("retries exhausted")

// ErrPollTimeout is returned by PollSpec.Poll when the deadline elapses
// before the predicate turns true.
var ErrPollTimeout = errors.New("poll deadline exceeded")

// Spec is a bounded-count retry: an operation is attempted up to
// MaxAttempts times with a fixed Interval between attempts.
type Spec struct {
	MaxAttempts int
	Interval    time.Duration
}

// Do runs op until it succeeds or MaxAttempts failures accumulate.
// Per-attempt errors are logged and swallowed; only the terminal
// ErrExhausted (wrapping the last attempt's error) propagates. Context
// cancellation during the inter-attempt wait propagates immediately.
func (s Spec) Do(ctx context.Context, logger *zap.Logger, op func(ctx context.Context) error) error {
	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := op(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		logger.Warn("Attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(lastErr))

		if attempt < attempts {
			if err := Sleep(ctx, s.Interval); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

// PollSpec is a bounded-time poll: a predicate is evaluated every Interval
// until it reports true or Timeout of wall-clock time has elapsed.
type PollSpec struct {
	Timeout  time.Duration
	Interval time.Duration
}

// Poll evaluates pred until it returns true or the deadline passes, in
// which case ErrPollTimeout propagates. A predicate error counts as "not
// yet" and is logged, never propagated; the deadline is the only way out of
// a persistently failing predicate. Total wall-clock time never exceeds
// Timeout plus one Interval.
func (s PollSpec) Poll(ctx context.Context, logger *zap.Logger, pred func(ctx context.Context) (bool, error)) error {
	deadline := time.Now().Add(s.Timeout)

	for {
		done, err := pred(ctx)
		if err != nil {
			logger.Warn("Poll predicate failed, treating as not ready", zap.Error(err))
		} else if done {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %s", ErrPollTimeout, s.Timeout)
		}
		if err := Sleep(ctx, s.Interval); err != nil {
			return err
		}
	}
}

// Sleep pauses for d, honoring context cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
