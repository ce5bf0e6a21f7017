package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hs-classifier/internal/cost"
	"github.com/sells-group/hs-classifier/pkg/anthropic"
)

func TestAnthropicCompleter_Complete(t *testing.T) {
	mc := new(mockAnthropicClient)
	mc.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-sonnet-4-5-20250929" &&
			req.MaxTokens == 512 &&
			len(req.System) == 1 && req.System[0].CacheControl != nil &&
			len(req.Messages) == 1 && req.Messages[0].Content == "classify this" &&
			req.Temperature != nil && *req.Temperature == 0
	})).Return(&anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: `{"selected_code":"84"}`}},
		Usage: anthropic.TokenUsage{
			InputTokens:              1000000,
			OutputTokens:             100000,
			CacheCreationInputTokens: 0,
			CacheReadInputTokens:     0,
		},
	}, nil)

	c := NewAnthropicCompleter(mc, "claude-sonnet-4-5-20250929", 512, 0, cost.NewCalculator(cost.DefaultRates()))
	text, usage, err := c.Complete(context.Background(), "system", "classify this")
	require.NoError(t, err)
	assert.Equal(t, `{"selected_code":"84"}`, text)
	assert.Equal(t, 1, usage.Calls)
	assert.Equal(t, 1000000, usage.InputTokens)
	assert.InDelta(t, 3.00+1.50, usage.Cost, 1e-9)
	mc.AssertExpectations(t)
}

func TestAnthropicCompleter_Error(t *testing.T) {
	mc := new(mockAnthropicClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

	c := NewAnthropicCompleter(mc, "m", 16, 0, nil)
	_, _, err := c.Complete(context.Background(), "s", "u")
	assert.EqualError(t, err, "overloaded")
}

func TestAnthropicCompleter_NilResponse(t *testing.T) {
	mc := new(mockAnthropicClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, nil)

	c := NewAnthropicCompleter(mc, "m", 16, 0, nil)
	_, _, err := c.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
