// Package config loads hs-classifier configuration and builds the logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/hs-classifier/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Classify  ClassifyConfig  `yaml:"classify" mapstructure:"classify"`
	Oracle    OracleConfig    `yaml:"oracle" mapstructure:"oracle"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy" mapstructure:"taxonomy"`
	Notes     NotesConfig     `yaml:"notes" mapstructure:"notes"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Pricing   cost.Rates      `yaml:"pricing" mapstructure:"pricing"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ClassifyConfig tunes the classification workflows.
type ClassifyConfig struct {
	MaxRetries            int     `yaml:"max_retries" mapstructure:"max_retries"`
	InitialDelayMs        int     `yaml:"initial_delay_ms" mapstructure:"initial_delay_ms"`
	PromptVariation       bool    `yaml:"prompt_variation" mapstructure:"prompt_variation"`
	MaxSelectionsPerLevel int     `yaml:"max_selections_per_level" mapstructure:"max_selections_per_level"`
	MinConfidence         float64 `yaml:"min_confidence_threshold" mapstructure:"min_confidence_threshold"`
	MaxOutputPaths        int     `yaml:"max_output_paths" mapstructure:"max_output_paths"`
	MaxConcurrency        int     `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// OracleConfig selects the LLM provider and its transport limits.
type OracleConfig struct {
	Provider                string  `yaml:"provider" mapstructure:"provider"`
	MaxTokens               int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature             float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs             int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond       float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst                   int     `yaml:"burst" mapstructure:"burst"`
	CircuitFailureThreshold int     `yaml:"circuit_failure_threshold" mapstructure:"circuit_failure_threshold"`
	CircuitResetSecs        int     `yaml:"circuit_reset_secs" mapstructure:"circuit_reset_secs"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// OpenAIConfig holds settings for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// TaxonomyConfig points at the HS code list.
type TaxonomyConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// NotesConfig points at the chapter notes and sets their cache lifetime.
type NotesConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	CacheTTLMins int    `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HSCLASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("classify.max_retries", 3)
	v.SetDefault("classify.initial_delay_ms", 1000)
	v.SetDefault("classify.prompt_variation", true)
	v.SetDefault("classify.max_selections_per_level", 3)
	v.SetDefault("classify.min_confidence_threshold", 0.3)
	v.SetDefault("classify.max_output_paths", 10)
	v.SetDefault("classify.max_concurrency", 8)

	v.SetDefault("oracle.provider", "anthropic")
	v.SetDefault("oracle.max_tokens", 1024)
	v.SetDefault("oracle.temperature", 0.0)
	v.SetDefault("oracle.timeout_secs", 60)
	v.SetDefault("oracle.requests_per_second", 5)
	v.SetDefault("oracle.burst", 5)
	v.SetDefault("oracle.circuit_failure_threshold", 5)
	v.SetDefault("oracle.circuit_reset_secs", 30)

	// Bind credential keys so env-only values survive Unmarshal.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("openai.key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")

	v.SetDefault("taxonomy.path", "data/taxonomy.csv")
	v.SetDefault("notes.path", "data/chapter_notes.yaml")
	v.SetDefault("notes.cache_ttl_mins", 60)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "hs-classifier.db")

	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Rates returns the default pricing table with any configured per-model
// rates layered on top.
func (c *Config) Rates() cost.Rates {
	rates := cost.DefaultRates()
	for model, r := range c.Pricing.Anthropic {
		rates.Anthropic[model] = r
	}
	for model, r := range c.Pricing.OpenAI {
		rates.OpenAI[model] = r
	}
	return rates
}

// InitLogger builds a logger from cfg and installs it as the global zap
// logger. The built logger is also returned for explicit injection.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
