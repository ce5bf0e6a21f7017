package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recordSleep returns a Sleep hook that records delays without waiting.
func recordSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func TestDoAttempt_SuccessOnFirstAttempt(t *testing.T) {
	var attempts []int
	val, err := DoAttempt(context.Background(), RetryConfig{}, func(_ context.Context, attempt int) (string, error) {
		attempts = append(attempts, attempt)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "ok" || len(attempts) != 1 || attempts[0] != 0 {
		t.Errorf("unexpected result %q attempts %v", val, attempts)
	}
}

func TestDoAttempt_PassesAttemptIndex(t *testing.T) {
	var delays []time.Duration
	var attempts []int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		Multiplier:     2,
		ShouldRetry:    func(error) bool { return true },
		Sleep:          recordSleep(&delays),
	}

	val, err := DoAttempt(context.Background(), cfg, func(_ context.Context, attempt int) (int, error) {
		attempts = append(attempts, attempt)
		if attempt < 2 {
			return 0, errors.New("empty response")
		}
		return 42, nil
	})
	if err != nil || val != 42 {
		t.Fatalf("expected 42, got %d (%v)", val, err)
	}
	if len(attempts) != 3 || attempts[1] != 1 || attempts[2] != 2 {
		t.Errorf("unexpected attempts %v", attempts)
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Errorf("expected [1s 2s], got %v", delays)
	}
}

func TestDoAttempt_ExhaustsWithoutTrailingSleep(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 10 * time.Millisecond,
		Sleep:          recordSleep(&delays),
	}

	var calls int
	_, err := DoAttempt(context.Background(), cfg, func(_ context.Context, _ int) (string, error) {
		calls++
		return "", NewTransientError(errors.New("always fails"), 500)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(delays) != 2 {
		t.Errorf("expected 2 sleeps, got %d", len(delays))
	}
}

func TestDoAttempt_PermanentErrorStops(t *testing.T) {
	var calls int
	_, err := DoAttempt(context.Background(), RetryConfig{MaxAttempts: 5}, func(_ context.Context, _ int) (int, error) {
		calls++
		return 0, errors.New("400 bad request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for a permanent error, got %d", calls)
	}
}

func TestDoAttempt_ContextCancelledStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := RetryConfig{
		MaxAttempts: 5,
		ShouldRetry: func(error) bool { return true },
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	_, err := DoAttempt(ctx, cfg, func(_ context.Context, _ int) (int, error) {
		calls++
		return 0, errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected retries to stop after cancel, got %d calls", calls)
	}
}

func TestComputeBackoff_CapAndJitter(t *testing.T) {
	cfg := applyDefaults(RetryConfig{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, Multiplier: 2})
	if d := computeBackoff(5, cfg); d != 3*time.Second {
		t.Errorf("expected cap at 3s, got %v", d)
	}

	cfg.JitterFraction = 0.5
	for i := 0; i < 20; i++ {
		d := computeBackoff(0, cfg)
		if d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Fatalf("jittered delay %v out of range", d)
		}
	}
}

func TestRetryLogger(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	hook := RetryLogger(zap.New(core), "oracle", "select_one")
	hook(1, time.Second, NewTransientError(errors.New("429"), 429))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["operation"] != "select_one" || fields["error_type"] != "transient" {
		t.Errorf("unexpected fields %v", fields)
	}

	// nil logger must not panic
	RetryLogger(nil, "oracle", "compare")(1, 0, errors.New("x"))
}
