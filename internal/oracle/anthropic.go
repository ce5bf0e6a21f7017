package oracle

import (
	"context"

	"github.com/sells-group/hs-classifier/internal/cost"
	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/pkg/anthropic"
)

// AnthropicCompleter implements Completer with the Anthropic Messages API.
type AnthropicCompleter struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	calc        *cost.Calculator
}

// NewAnthropicCompleter creates a Completer for the given model.
func NewAnthropicCompleter(client anthropic.Client, modelName string, maxTokens int, temperature float64, calc *cost.Calculator) *AnthropicCompleter {
	return &AnthropicCompleter{
		client:      client,
		model:       modelName,
		maxTokens:   int64(maxTokens),
		temperature: temperature,
		calc:        calc,
	}
}

// Complete implements Completer. The system prompt is sent as a cached block
// since it is shared by every call of a run.
func (a *AnthropicCompleter) Complete(ctx context.Context, system, user string) (string, model.TokenUsage, error) {
	temp := a.temperature
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(system),
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &temp,
	})
	if err != nil {
		return "", model.TokenUsage{}, markTransient(err)
	}
	if resp == nil {
		return "", model.TokenUsage{}, ErrEmptyResponse
	}

	u := resp.Usage
	usage := model.TokenUsage{
		Calls:               1,
		InputTokens:         int(u.InputTokens),
		OutputTokens:        int(u.OutputTokens),
		CacheCreationTokens: int(u.CacheCreationInputTokens),
		CacheReadTokens:     int(u.CacheReadInputTokens),
	}
	if a.calc != nil {
		usage.Cost = a.calc.Claude(a.model, usage.InputTokens, usage.OutputTokens, usage.CacheCreationTokens, usage.CacheReadTokens)
	}
	return resp.Text(), usage, nil
}
