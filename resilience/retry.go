package resilience

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/kbukum/toolbox/errors"
)

// Policy configures retries with exponential backoff.
type Policy struct {
	// Attempts is the total number of calls, the first included.
	Attempts int
	// Backoff is the wait after the first failure.
	Backoff time.Duration
	// MaxBackoff caps every wait.
	MaxBackoff time.Duration
	// Factor multiplies the wait after each failure.
	Factor float64
	// Jitter randomizes each wait by up to this fraction (0.0 to 1.0).
	Jitter float64
	// RetryIf reports whether err is worth another attempt.
	RetryIf func(error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy returns three attempts starting at 100ms.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   3,
		Backoff:    100 * time.Millisecond,
		MaxBackoff: 10 * time.Second,
		Factor:     2.0,
		Jitter:     0.1,
		RetryIf:    Retryable,
	}
}

// Retryable retries everything except context errors and AppErrors that are
// not marked retryable.
func Retryable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Retryable
	}
	return true
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Attempts <= 0 {
		p.Attempts = d.Attempts
	}
	if p.Backoff <= 0 {
		p.Backoff = d.Backoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = d.MaxBackoff
	}
	if p.MaxBackoff < p.Backoff {
		p.MaxBackoff = p.Backoff
	}
	if p.Factor < 1 {
		p.Factor = d.Factor
	}
	if p.RetryIf == nil {
		p.RetryIf = d.RetryIf
	}
	return p
}

// Wait returns the pause after the given failed attempt, counting from 1.
func (p Policy) Wait(attempt int) time.Duration {
	p = p.withDefaults()
	wait := float64(p.Backoff) * math.Pow(p.Factor, float64(attempt-1))
	if p.Jitter > 0 {
		wait += (rand.Float64()*2 - 1) * wait * p.Jitter
	}
	if wait > float64(p.MaxBackoff) {
		wait = float64(p.MaxBackoff)
	}
	if wait < 0 {
		wait = float64(p.Backoff)
	}
	return time.Duration(wait)
}

// Do calls fn until it succeeds, returns an error RetryIf rejects, runs out
// of attempts or ctx ends. Context errors are returned as they are; an
// exhausted policy wraps the last error.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	p = p.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !p.RetryIf(err) || attempt == p.Attempts {
			break
		}

		wait := p.Wait(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
	if p.Attempts > 1 && p.RetryIf(lastErr) {
		return zero, fmt.Errorf("after %d attempts: %w", p.Attempts, lastErr)
	}
	return zero, lastErr
}

// Run is Do for functions without a result.
func Run(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
