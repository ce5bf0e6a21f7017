package resilience

import (
	"time"

	"go.uber.org/zap"
)

// FromCircuitConfig converts config values to a CircuitBreakerConfig whose
// state transitions are logged under the given service name.
func FromCircuitConfig(log *zap.Logger, service string, failureThreshold, resetTimeoutSecs int) CircuitBreakerConfig {
	cfg := DefaultCircuitBreakerConfig()
	if failureThreshold > 0 {
		cfg.FailureThreshold = failureThreshold
	}
	if resetTimeoutSecs > 0 {
		cfg.ResetTimeout = time.Duration(resetTimeoutSecs) * time.Second
	}
	if log != nil {
		cfg.OnStateChange = func(from, to CircuitState) {
			log.Warn("circuit breaker state change",
				zap.String("service", service),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
	}
	return cfg
}
