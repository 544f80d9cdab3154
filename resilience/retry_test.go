package resilience

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/toolbox/errors"
)

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, Backoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retried []int
	p := fastPolicy(3)
	p.OnRetry = func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }

	got, err := Do(context.Background(), p, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", stderrors.New("connection refused")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Errorf("expected OnRetry for attempts [1 2], got %v", retried)
	}
}

func TestDo_Exhausted(t *testing.T) {
	cause := stderrors.New("connection refused")
	calls := 0

	err := Run(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return cause
	})
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("expected attempt count in %q", err.Error())
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_NotRetryable(t *testing.T) {
	calls := 0
	notFound := errors.NotFound("Item", "9")

	err := Run(context.Background(), fastPolicy(5), func(context.Context) error {
		calls++
		return notFound
	})
	if err != notFound {
		t.Fatalf("expected the AppError unchanged, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Run(ctx, fastPolicy(3), func(context.Context) error {
		calls++
		return nil
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"plain", stderrors.New("boom"), true},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"retryable app error", errors.Timeout("query"), true},
		{"permanent app error", errors.InvalidInput("name", "bad"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Retryable(tc.err); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestPolicy_Wait(t *testing.T) {
	p := Policy{Backoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond, Factor: 2}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{8, 300 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := p.Wait(tc.attempt); got != tc.expected {
			t.Errorf("attempt %d: expected %s, got %s", tc.attempt, tc.expected, got)
		}
	}
}

func TestPolicy_WaitJitterBounds(t *testing.T) {
	p := Policy{Backoff: 100 * time.Millisecond, Factor: 2, Jitter: 0.5}
	for i := 0; i < 50; i++ {
		got := p.Wait(1)
		if got < 50*time.Millisecond || got > 150*time.Millisecond {
			t.Fatalf("expected wait within 50ms..150ms, got %s", got)
		}
	}
}
