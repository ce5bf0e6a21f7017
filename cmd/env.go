package main

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/classify"
	"github.com/sells-group/hs-classifier/internal/cost"
	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/notes"
	"github.com/sells-group/hs-classifier/internal/oracle"
	"github.com/sells-group/hs-classifier/internal/store"
	"github.com/sells-group/hs-classifier/internal/taxonomy"
)

// classifier is the engine surface the commands depend on.
type classifier interface {
	Classify(ctx context.Context, description string, mode model.Mode) (*model.Outcome, error)
}

// classifyEnv holds the collaborators shared by classify, batch and serve.
type classifyEnv struct {
	Engine classifier
	Store  store.Store
}

// Close releases the store, if any.
func (e *classifyEnv) Close() {
	if e.Store != nil {
		e.Store.Close() //nolint:errcheck
	}
}

// initClassifier validates config for mode and wires taxonomy, notes, oracle
// and engine. withStore also opens the run store.
func initClassifier(ctx context.Context, mode string, withStore bool) (*classifyEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	log := zap.L()

	tax, err := taxonomy.Load(ctx, cfg.Taxonomy.Path, log)
	if err != nil {
		return nil, eris.Wrap(err, "load taxonomy")
	}
	counts := tax.Counts()
	log.Info("taxonomy loaded",
		zap.String("path", cfg.Taxonomy.Path),
		zap.Int("chapters", counts[model.LevelChapter]),
		zap.Int("headings", counts[model.LevelHeading]),
		zap.Int("subheadings", counts[model.LevelSubheading]),
	)

	nl, err := loadNotes(log)
	if err != nil {
		return nil, err
	}

	orc, err := oracle.New(oracleSettings(), cost.NewCalculator(cfg.Rates()), log)
	if err != nil {
		return nil, eris.Wrap(err, "init oracle")
	}

	env := &classifyEnv{
		Engine: classify.New(tax, orc, nl, engineOptions(log)),
	}

	if withStore {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		env.Store = st
	}
	return env, nil
}

// loadNotes reads chapter notes and wraps them in a TTL cache. A missing
// notes path is not fatal; the comparator gets the placeholder text.
func loadNotes(log *zap.Logger) (notes.Lookup, error) {
	var src notes.Source
	if cfg.Notes.Path != "" {
		s, err := notes.Load(cfg.Notes.Path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, eris.Wrap(err, "load chapter notes")
			}
			log.Warn("chapter notes not found", zap.String("path", cfg.Notes.Path))
		}
		src = s
	}
	ttl := time.Duration(cfg.Notes.CacheTTLMins) * time.Minute
	return notes.NewCached(src, ttl), nil
}

func oracleSettings() oracle.Settings {
	return oracle.Settings{
		Provider:       cfg.Oracle.Provider,
		AnthropicKey:   cfg.Anthropic.Key,
		AnthropicModel: cfg.Anthropic.Model,
		OpenAI: oracle.OpenAIConfig{
			APIKey:  cfg.OpenAI.Key,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		},
		MaxTokens:         cfg.Oracle.MaxTokens,
		Temperature:       cfg.Oracle.Temperature,
		Timeout:           time.Duration(cfg.Oracle.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Oracle.RequestsPerSecond,
		Burst:             cfg.Oracle.Burst,
		FailureThreshold:  cfg.Oracle.CircuitFailureThreshold,
		ResetTimeoutSecs:  cfg.Oracle.CircuitResetSecs,
	}
}

func engineOptions(log *zap.Logger) classify.Options {
	c := cfg.Classify
	return classify.Options{
		Retry: oracle.RetryPolicy{
			MaxRetries:      c.MaxRetries,
			InitialDelay:    time.Duration(c.InitialDelayMs) * time.Millisecond,
			PromptVariation: c.PromptVariation,
			Logger:          log,
		},
		MaxSelectionsPerLevel: c.MaxSelectionsPerLevel,
		MinConfidence:         c.MinConfidence,
		MaxOutputPaths:        c.MaxOutputPaths,
		MaxConcurrency:        c.MaxConcurrency,
		Logger:                log,
	}
}
