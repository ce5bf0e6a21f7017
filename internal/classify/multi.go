package classify

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hs-classifier/internal/model"
)

// chapterBranch is one selected chapter with the headings chosen under it.
type chapterBranch struct {
	chapter  model.ClassificationResult
	headings []model.ClassificationResult
}

// headingBranch is one selected heading, its parent chapter and the
// subheadings chosen under it. Carrying the parent keeps sentinel headings
// of different chapters apart.
type headingBranch struct {
	chapter     model.ClassificationResult
	heading     model.ClassificationResult
	subheadings []model.ClassificationResult
}

// ClassifyMulti explores up to MaxSelectionsPerLevel codes per level, ranks
// the resulting paths and lets the comparator pick the final code.
func (e *Engine) ClassifyMulti(ctx context.Context, description string) (*model.MultiPathResult, error) {
	r := e.newRun(description)

	chapters, err := r.selectMany(ctx, model.LevelChapter, "")
	if err != nil {
		return nil, err
	}
	e.log.Debug("chapters selected", zap.Int("count", len(chapters)))

	chapterBranches, err := fanOut(ctx, e, model.LevelHeading, chapters,
		func(c model.ClassificationResult) string { return c.SelectedCode },
		func(ctx context.Context, ch model.ClassificationResult) (chapterBranch, error) {
			headings, err := r.descendMany(ctx, model.LevelHeading, ch)
			return chapterBranch{chapter: ch, headings: headings}, err
		})
	if err != nil {
		return nil, err
	}

	var pending []headingBranch
	for _, cb := range chapterBranches {
		for _, hd := range cb.headings {
			pending = append(pending, headingBranch{chapter: cb.chapter, heading: hd})
		}
	}

	headingBranches, err := fanOut(ctx, e, model.LevelSubheading, pending,
		func(b headingBranch) string { return b.heading.SelectedCode },
		func(ctx context.Context, b headingBranch) (headingBranch, error) {
			subs, err := r.descendMany(ctx, model.LevelSubheading, b.heading)
			b.subheadings = subs
			return b, err
		})
	if err != nil {
		return nil, err
	}

	paths := rankPaths(buildPaths(headingBranches), e.opts.MaxOutputPaths)
	if len(paths) == 0 {
		e.log.Warn("no branch produced a path, using sentinel path")
		paths = []model.ClassificationPath{sentinelPath()}
	}

	res, err := r.arbitrate(ctx, paths)
	if err != nil {
		return nil, err
	}
	res.Usage = r.usage.snapshot()

	e.log.Info("multi-path classification complete",
		zap.String("code", res.FinalCode),
		zap.Float64("confidence", res.FinalConfidence),
		zap.Int("paths", len(res.Paths)),
		zap.Int("oracle_calls", res.Usage.Calls),
	)
	return res, nil
}

// descendMany selects at level under parent, or returns a single sentinel
// without an oracle call when parent is itself the sentinel.
func (r *run) descendMany(ctx context.Context, level model.Level, parent model.ClassificationResult) ([]model.ClassificationResult, error) {
	if parent.IsSentinel() {
		return []model.ClassificationResult{model.SentinelResult(level, ReasonParentSentinel)}, nil
	}
	return r.selectMany(ctx, level, parent.SelectedCode)
}

// fanOut runs fn for every item with bounded concurrency. A failing item is
// logged and left out; it never cancels its siblings. Results keep the input
// order. The error is non-nil only when ctx ended.
func fanOut[In, Out any](
	ctx context.Context,
	e *Engine,
	level model.Level,
	items []In,
	parentOf func(In) string,
	fn func(context.Context, In) (Out, error),
) ([]Out, error) {
	results := make([]Out, len(items))
	ok := make([]bool, len(items))

	g := new(errgroup.Group)
	g.SetLimit(e.opts.MaxConcurrency)
	for i, item := range items {
		g.Go(func() error {
			out, err := fn(ctx, item)
			if err != nil {
				e.log.Warn("branch failed, discarding",
					zap.String("level", level.String()),
					zap.String("branch", parentOf(item)),
					zap.Error(err),
				)
				return nil
			}
			results[i] = out
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept := make([]Out, 0, len(items))
	for i := range results {
		if ok[i] {
			kept = append(kept, results[i])
		}
	}
	return kept, nil
}
