package oracle

import (
	"context"
	"errors"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/resilience"
)

// timeoutCompleter bounds each call of a Completer that has no client-level
// timeout of its own.
type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

func (t timeoutCompleter) Complete(ctx context.Context, system, user string) (string, model.TokenUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, system, user)
}

// markTransient wraps provider API errors whose status is retryable, such as
// rate limits and overloads, so retry logs and breakers can tell them apart.
func markTransient(err error) error {
	if err == nil {
		return nil
	}
	if code := statusCode(err); resilience.IsTransientHTTPStatus(code) {
		return resilience.NewTransientError(err, code)
	}
	return err
}

func statusCode(err error) int {
	var anthropicErr *sdk.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
