package oracle

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/pkg/anthropic"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string) (string, model.TokenUsage, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Get(1).(model.TokenUsage), args.Error(2)
}

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}
