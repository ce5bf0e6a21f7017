package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func call(cb *CircuitBreaker, err error) error {
	_, got := ExecuteVal(context.Background(), cb, func(_ context.Context) (string, error) {
		return "ok", err
	})
	return got
}

func TestCircuitBreaker_ClosedState_PassesThrough(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	val, err := ExecuteVal(context.Background(), cb, func(_ context.Context) (string, error) {
		return "847130", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "847130" {
		t.Errorf("expected value to pass through, got %q", val)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("expected closed state, got %s", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_ = call(cb, errors.New("503 overloaded"))
	}
	if cb.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	var ran bool
	_, err := ExecuteVal(context.Background(), cb, func(_ context.Context) (int, error) {
		ran = true
		return 0, nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if ran {
		t.Error("fn should not run while the circuit is open")
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3})

	_ = call(cb, errors.New("fail"))
	_ = call(cb, errors.New("fail"))
	if cb.Failures() != 2 {
		t.Fatalf("expected 2 failures, got %d", cb.Failures())
	}
	_ = call(cb, nil)
	if cb.Failures() != 0 {
		t.Errorf("expected failures reset, got %d", cb.Failures())
	}
	_ = call(cb, errors.New("fail"))
	_ = call(cb, errors.New("fail"))
	if cb.State() != CircuitClosed {
		t.Errorf("non-consecutive failures should not open the circuit")
	}
}

func TestCircuitBreaker_HalfOpenProbeCloses(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: 100 * time.Millisecond})
	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = call(cb, errors.New("fail"))
	if cb.State() != CircuitOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	cb.now = func() time.Time { return now.Add(200 * time.Millisecond) }
	if cb.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", cb.State())
	}
	if err := call(cb, nil); err != nil {
		t.Fatalf("probe should pass: %v", err)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("expected closed after successful probe, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: 100 * time.Millisecond})
	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = call(cb, errors.New("fail"))
	_ = call(cb, errors.New("fail"))

	later := now.Add(200 * time.Millisecond)
	cb.now = func() time.Time { return later }
	_ = call(cb, errors.New("still failing"))

	if cb.State() != CircuitOpen {
		t.Errorf("expected reopen after failed probe, got %s", cb.State())
	}
	if err := call(cb, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen right after reopening, got %v", err)
	}
}

func TestCircuitBreaker_CancellationDoesNotTrip(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1})

	_ = call(cb, context.Canceled)
	if cb.State() != CircuitClosed {
		t.Errorf("caller cancellation should not open the circuit")
	}
	if cb.Failures() != 0 {
		t.Errorf("expected 0 failures, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_ShouldTrip(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ShouldTrip:       IsTransient,
	})

	_ = call(cb, errors.New("400 bad request"))
	if cb.State() != CircuitClosed {
		t.Fatalf("permanent error should not trip")
	}
	_ = call(cb, NewTransientError(errors.New("429"), 429))
	if cb.State() != CircuitOpen {
		t.Errorf("transient error should trip")
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Millisecond,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = call(cb, errors.New("fail"))
	cb.now = func() time.Time { return now.Add(time.Second) }
	_ = call(cb, nil)

	want := []string{"closed->open", "open->half-open", "half-open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("expected %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d: expected %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = call(cb, errors.New("fail"))
			} else {
				_ = call(cb, nil)
			}
			_ = cb.State()
		}()
	}
	wg.Wait()
}

func TestCircuitState_String(t *testing.T) {
	cases := map[CircuitState]string{
		CircuitClosed:    "closed",
		CircuitOpen:      "open",
		CircuitHalfOpen:  "half-open",
		CircuitState(42): "unknown",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("expected %q, got %q", want, s.String())
		}
	}
}
