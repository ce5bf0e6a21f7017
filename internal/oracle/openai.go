package oracle

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"

	"github.com/sells-group/hs-classifier/internal/cost"
	"github.com/sells-group/hs-classifier/internal/model"
)

// OpenAIConfig configures an OpenAI-compatible chat completion backend.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// OpenAICompleter implements Completer with the chat completions API.
type OpenAICompleter struct {
	client *openai.Client
	cfg    OpenAIConfig
	calc   *cost.Calculator
}

// NewOpenAICompleter creates a Completer for an OpenAI-compatible endpoint.
func NewOpenAICompleter(cfg OpenAIConfig, calc *cost.Calculator) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("oracle: openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		calc:   calc,
	}, nil
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, model.TokenUsage, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: float32(c.cfg.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", model.TokenUsage{}, eris.Wrap(markTransient(err), "oracle: openai chat completion")
	}

	usage := model.TokenUsage{
		Calls:        1,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if d := resp.Usage.PromptTokensDetails; d != nil {
		usage.CacheReadTokens = d.CachedTokens
	}
	if c.calc != nil {
		usage.Cost = c.calc.OpenAI(c.cfg.Model, usage.InputTokens, usage.OutputTokens, usage.CacheReadTokens)
	}

	if len(resp.Choices) == 0 {
		return "", usage, ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, usage, nil
}
