package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"anthropic", Settings{Provider: ProviderAnthropic, AnthropicKey: "k", AnthropicModel: "m", RequestsPerSecond: 5, Burst: 5}, false},
		{"default provider", Settings{AnthropicKey: "k"}, false},
		{"anthropic without key", Settings{Provider: ProviderAnthropic}, true},
		{"openai", Settings{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "k"}, Timeout: time.Second}, false},
		{"openai without key", Settings{Provider: ProviderOpenAI}, true},
		{"unknown", Settings{Provider: "gemini"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := New(tt.s, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, o.breaker)
			assert.Equal(t, tt.s.RequestsPerSecond > 0, o.limiter != nil)
		})
	}
}
