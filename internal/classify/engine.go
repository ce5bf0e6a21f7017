// Package classify walks the HS taxonomy with an oracle, in single-path or
// multi-path mode.
package classify

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/notes"
	"github.com/sells-group/hs-classifier/internal/oracle"
)

// Taxonomy is the read-only code store the engine descends.
type Taxonomy interface {
	CodesAtLevel(level model.Level) model.CodeSet
	ChildrenOf(parent string, level model.Level) model.CodeSet
}

// NotesLookup returns chapter reference notes for the comparator. It never
// fails; missing notes yield a placeholder text.
type NotesLookup interface {
	NotesFor(chapters []string) string
}

// Options tunes the engine.
type Options struct {
	Retry oracle.RetryPolicy

	// MaxSelectionsPerLevel bounds multi-selection results. Default: 3.
	MaxSelectionsPerLevel int
	// MinConfidence is the multi-selection threshold. Default: 0.3.
	MinConfidence float64
	// MaxOutputPaths bounds the ranked path list. Default: 10.
	MaxOutputPaths int
	// MaxConcurrency bounds concurrent branch tasks. Default: 8.
	MaxConcurrency int

	Logger *zap.Logger
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Retry:                 oracle.DefaultRetryPolicy(),
		MaxSelectionsPerLevel: 3,
		MinConfidence:         0.3,
		MaxOutputPaths:        10,
		MaxConcurrency:        8,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxSelectionsPerLevel <= 0 {
		o.MaxSelectionsPerLevel = d.MaxSelectionsPerLevel
	}
	if o.MinConfidence < 0 {
		o.MinConfidence = 0
	}
	if o.MaxOutputPaths <= 0 {
		o.MaxOutputPaths = d.MaxOutputPaths
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = d.MaxConcurrency
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Retry.Logger == nil {
		o.Retry.Logger = o.Logger
	}
	return o
}

// Engine runs classification workflows. It is safe for concurrent use.
type Engine struct {
	tax    Taxonomy
	oracle oracle.Oracle
	notes  NotesLookup
	opts   Options
	log    *zap.Logger
}

// New creates an Engine. A nil notes lookup always yields the placeholder.
func New(tax Taxonomy, o oracle.Oracle, nl NotesLookup, opts Options) *Engine {
	opts = opts.withDefaults()
	if nl == nil {
		nl = notes.Source(nil)
	}
	return &Engine{
		tax:    tax,
		oracle: o,
		notes:  nl,
		opts:   opts,
		log:    opts.Logger,
	}
}

// Classify runs the workflow named by mode.
func (e *Engine) Classify(ctx context.Context, description string, mode model.Mode) (*model.Outcome, error) {
	switch mode {
	case model.ModeSingle:
		r, err := e.ClassifySingle(ctx, description)
		if err != nil {
			return nil, err
		}
		return model.SingleOutcome(r), nil
	case model.ModeMulti:
		r, err := e.ClassifyMulti(ctx, description)
		if err != nil {
			return nil, err
		}
		return model.MultiOutcome(r), nil
	default:
		return nil, eris.Errorf("classify: unknown mode %q", mode)
	}
}

// run carries per-request state shared by every stage of one workflow.
type run struct {
	e           *Engine
	description string
	usage       *meter
}

func (e *Engine) newRun(description string) *run {
	return &run{e: e, description: description, usage: &meter{}}
}

// meter accumulates token usage across concurrent oracle calls.
type meter struct {
	mu    sync.Mutex
	total model.TokenUsage
}

func (m *meter) add(u model.TokenUsage) {
	m.mu.Lock()
	m.total.Add(u)
	m.mu.Unlock()
}

func (m *meter) snapshot() model.TokenUsage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}
