package oracle

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/resilience"
)

// RetryPolicy wraps every oracle call with bounded attempts, exponential
// backoff and an attempt-indexed request perturbation.
type RetryPolicy struct {
	// MaxRetries is the total number of attempts. Default: 3.
	MaxRetries int
	// InitialDelay is the sleep after the first failure; it doubles after
	// every further failure. Default: 1s.
	InitialDelay time.Duration
	// PromptVariation enables the request perturbation on attempts after
	// the first.
	PromptVariation bool
	Logger          *zap.Logger
	// Sleep overrides the backoff wait. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns three attempts starting at one second with
// prompt variation enabled.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialDelay:    time.Second,
		PromptVariation: true,
	}
}

// Request is an oracle request that can be perturbed for a retry attempt.
type Request[R any] interface {
	WithVariation(n int) R
}

// Invoke calls fn under the policy. Any error or nil response counts as a
// failed attempt. A nil response with a nil error means the attempts were
// exhausted and the caller should fall back to the sentinel. The error is
// non-nil only when ctx ended.
func Invoke[Req Request[Req], Resp any](ctx context.Context, p RetryPolicy, op string, req Req, fn func(context.Context, Req) (*Resp, error)) (*Resp, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	attempts := p.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	delay := p.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}

	cfg := resilience.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: delay,
		MaxBackoff:     time.Duration(math.MaxInt64),
		Multiplier:     2,
		ShouldRetry:    func(error) bool { return true },
		OnRetry:        resilience.RetryLogger(log, "oracle", op),
		Sleep:          p.Sleep,
	}

	resp, err := resilience.DoAttempt(ctx, cfg, func(ctx context.Context, attempt int) (*Resp, error) {
		r := req
		if p.PromptVariation && attempt > 0 {
			r = req.WithVariation(attempt)
		}
		resp, err := fn(ctx, r)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, ErrEmptyResponse
		}
		return resp, nil
	})
	if err == nil {
		return resp, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	log.Warn("oracle retries exhausted",
		zap.String("operation", op),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	return nil, nil
}
