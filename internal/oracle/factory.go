package oracle

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/hs-classifier/internal/cost"
	"github.com/sells-group/hs-classifier/internal/resilience"
	"github.com/sells-group/hs-classifier/pkg/anthropic"
)

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Settings selects and configures an LLM backend.
type Settings struct {
	Provider          string
	AnthropicKey      string
	AnthropicModel    string
	OpenAI            OpenAIConfig
	MaxTokens         int
	Temperature       float64
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	FailureThreshold  int
	ResetTimeoutSecs  int
}

// New builds the configured backend wrapped with rate limiting and a circuit
// breaker.
func New(s Settings, calc *cost.Calculator, log *zap.Logger) (*LLM, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var c Completer
	switch s.Provider {
	case ProviderAnthropic, "":
		if s.AnthropicKey == "" {
			return nil, eris.New("oracle: anthropic api key is required")
		}
		client := anthropic.NewClient(s.AnthropicKey, anthropic.WithTimeout(s.Timeout))
		c = NewAnthropicCompleter(client, s.AnthropicModel, s.MaxTokens, s.Temperature, calc)
	case ProviderOpenAI:
		oc := s.OpenAI
		oc.MaxTokens = s.MaxTokens
		oc.Temperature = s.Temperature
		var err error
		c, err = NewOpenAICompleter(oc, calc)
		if err != nil {
			return nil, err
		}
		if s.Timeout > 0 {
			c = timeoutCompleter{next: c, timeout: s.Timeout}
		}
	default:
		return nil, eris.Errorf("oracle: unknown provider %q", s.Provider)
	}

	opts := LLMOptions{
		Breaker: resilience.NewCircuitBreaker(
			resilience.FromCircuitConfig(log, "oracle", s.FailureThreshold, s.ResetTimeoutSecs),
		),
		Logger: log,
	}
	if s.RequestsPerSecond > 0 {
		burst := s.Burst
		if burst <= 0 {
			burst = 1
		}
		opts.Limiter = rate.NewLimiter(rate.Limit(s.RequestsPerSecond), burst)
	}

	log.Info("oracle configured",
		zap.String("provider", providerName(s.Provider)),
		zap.Float64("requests_per_second", s.RequestsPerSecond),
	)
	return NewLLM(c, opts), nil
}

func providerName(p string) string {
	if p == "" {
		return ProviderAnthropic
	}
	return p
}
