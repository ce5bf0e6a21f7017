package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the settings needed by the given command mode are
// present and in range. Modes: classify, batch, serve, runs.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "classify":
		errs = append(errs, c.validateOracle()...)
		errs = append(errs, c.validateClassify()...)
	case "batch":
		errs = append(errs, c.validateOracle()...)
		errs = append(errs, c.validateClassify()...)
		if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 64 {
			errs = append(errs, "batch.max_concurrent must be between 1 and 64")
		}
	case "serve":
		errs = append(errs, c.validateOracle()...)
		errs = append(errs, c.validateClassify()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "runs":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	errs = append(errs, c.validateStore()...)

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateOracle() []string {
	var errs []string
	switch c.Oracle.Provider {
	case "anthropic", "":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	case "openai":
		if c.OpenAI.Key == "" {
			errs = append(errs, "openai.key is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("oracle.provider %q is not supported", c.Oracle.Provider))
	}
	if c.Oracle.MaxTokens <= 0 {
		errs = append(errs, "oracle.max_tokens must be > 0")
	}
	if c.Oracle.RequestsPerSecond < 0 {
		errs = append(errs, "oracle.requests_per_second must be >= 0")
	}
	return errs
}

func (c *Config) validateClassify() []string {
	var errs []string
	cl := c.Classify
	if cl.MaxRetries < 1 {
		errs = append(errs, "classify.max_retries must be >= 1")
	}
	if cl.InitialDelayMs < 0 {
		errs = append(errs, "classify.initial_delay_ms must be >= 0")
	}
	if cl.MaxSelectionsPerLevel < 1 {
		errs = append(errs, "classify.max_selections_per_level must be >= 1")
	}
	if cl.MinConfidence < 0 || cl.MinConfidence > 1 {
		errs = append(errs, "classify.min_confidence_threshold must be between 0 and 1")
	}
	if cl.MaxOutputPaths < 1 {
		errs = append(errs, "classify.max_output_paths must be >= 1")
	}
	if cl.MaxConcurrency < 1 {
		errs = append(errs, "classify.max_concurrency must be >= 1")
	}
	return errs
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required"}
		}
	case "":
		// Runs are not persisted.
	default:
		return []string{fmt.Sprintf("store.driver %q is not supported", c.Store.Driver)}
	}
	return nil
}
