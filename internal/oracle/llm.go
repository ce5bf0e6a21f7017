package oracle

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/resilience"
)

// Completer sends one system prompt and one user message to a language model
// and returns the raw text answer.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, model.TokenUsage, error)
}

// LLMOptions configures an LLM oracle.
type LLMOptions struct {
	// Limiter throttles outgoing calls. Nil means unlimited.
	Limiter *rate.Limiter
	// Breaker fails calls fast after repeated transport failures. Nil disables it.
	Breaker *resilience.CircuitBreaker
	Logger  *zap.Logger
}

// LLM implements Oracle on top of a Completer.
type LLM struct {
	completer Completer
	limiter   *rate.Limiter
	breaker   *resilience.CircuitBreaker
	log       *zap.Logger
}

// NewLLM creates an LLM-backed oracle.
func NewLLM(c Completer, opts LLMOptions) *LLM {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &LLM{
		completer: c,
		limiter:   opts.Limiter,
		breaker:   opts.Breaker,
		log:       log,
	}
}

// SelectOne implements Selector.
func (o *LLM) SelectOne(ctx context.Context, req SelectRequest) (*SelectResponse, error) {
	text, usage, err := o.complete(ctx, renderSelect(req))
	if err != nil {
		return nil, err
	}
	resp, err := parseSelect(text)
	if err != nil {
		o.log.Debug("unparseable selection", zap.String("level", req.Level.String()), zap.Error(err))
		return nil, err
	}
	resp.Usage = usage
	return resp, nil
}

// SelectMany implements Selector.
func (o *LLM) SelectMany(ctx context.Context, req MultiSelectRequest) (*MultiSelectResponse, error) {
	text, usage, err := o.complete(ctx, renderSelectMany(req))
	if err != nil {
		return nil, err
	}
	resp, err := parseSelectMany(text)
	if err != nil {
		o.log.Debug("unparseable selections", zap.String("level", req.Level.String()), zap.Error(err))
		return nil, err
	}
	resp.Usage = usage
	return resp, nil
}

// Compare implements Comparator.
func (o *LLM) Compare(ctx context.Context, req CompareRequest) (*CompareResponse, error) {
	text, usage, err := o.complete(ctx, renderCompare(req))
	if err != nil {
		return nil, err
	}
	resp, err := parseCompare(text)
	if err != nil {
		o.log.Debug("unparseable comparison", zap.Int("paths", len(req.Paths)), zap.Error(err))
		return nil, err
	}
	resp.Usage = usage
	return resp, nil
}

func (o *LLM) complete(ctx context.Context, p prompt) (string, model.TokenUsage, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", model.TokenUsage{}, err
		}
	}

	type result struct {
		text  string
		usage model.TokenUsage
	}
	call := func(ctx context.Context) (result, error) {
		text, usage, err := o.completer.Complete(ctx, p.System, p.User)
		if err != nil {
			return result{}, err
		}
		if strings.TrimSpace(text) == "" {
			return result{usage: usage}, ErrEmptyResponse
		}
		return result{text: text, usage: usage}, nil
	}

	var (
		r   result
		err error
	)
	if o.breaker != nil {
		r, err = resilience.ExecuteVal(ctx, o.breaker, call)
	} else {
		r, err = call(ctx)
	}
	return r.text, r.usage, err
}
