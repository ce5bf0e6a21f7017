package classify

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/oracle"
)

// candidatesFor returns the codes eligible at level under parent.
func (r *run) candidatesFor(level model.Level, parent string) model.CodeSet {
	if level == model.LevelChapter {
		return r.e.tax.CodesAtLevel(level)
	}
	return r.e.tax.ChildrenOf(parent, level)
}

func noCandidates(parent string) string {
	if parent == "" {
		return ReasonNoCandidates
	}
	return ReasonNoCandidates + " under " + parent
}

// selectOne picks exactly one code at level. Exhausted retries and an empty
// candidate set yield the sentinel; a code outside the candidate set is
// ErrInvalidSelection.
func (r *run) selectOne(ctx context.Context, level model.Level, parent string) (model.ClassificationResult, error) {
	candidates := r.candidatesFor(level, parent)
	if len(candidates) == 0 {
		r.e.log.Info("no candidates, using sentinel",
			zap.String("level", level.String()), zap.String("parent", parent))
		return model.SentinelResult(level, noCandidates(parent)), nil
	}

	req := oracle.SelectRequest{
		Description: r.description,
		Candidates:  oracle.Candidates(candidates),
		Level:       level,
		ParentCode:  parent,
	}
	resp, err := oracle.Invoke(ctx, r.e.opts.Retry, "select_one", req, r.e.oracle.SelectOne)
	if err != nil {
		return model.ClassificationResult{}, err
	}
	if resp == nil {
		return model.SentinelResult(level, ReasonRetriesExhausted), nil
	}
	r.usage.add(resp.Usage)

	if model.IsSentinel(resp.Code) {
		return model.ClassificationResult{
			Level:        level,
			SelectedCode: model.SentinelCode,
			Confidence:   resp.Confidence,
			Reasoning:    resp.Reasoning,
		}, nil
	}
	if !candidates.Has(resp.Code) {
		return model.ClassificationResult{}, eris.Wrapf(ErrInvalidSelection,
			"level %s parent %q code %q", level, parent, resp.Code)
	}

	return model.ClassificationResult{
		Level:        level,
		SelectedCode: resp.Code,
		Description:  candidates.Description(resp.Code),
		Confidence:   resp.Confidence,
		Reasoning:    resp.Reasoning,
	}, nil
}

// selectMany picks between 1 and MaxSelectionsPerLevel codes at level,
// best first. Invalid codes are dropped; when nothing usable remains the
// result is a single sentinel.
func (r *run) selectMany(ctx context.Context, level model.Level, parent string) ([]model.ClassificationResult, error) {
	candidates := r.candidatesFor(level, parent)
	if len(candidates) == 0 {
		r.e.log.Info("no candidates, using sentinel",
			zap.String("level", level.String()), zap.String("parent", parent))
		return []model.ClassificationResult{model.SentinelResult(level, noCandidates(parent))}, nil
	}

	req := oracle.MultiSelectRequest{
		Description:   r.description,
		Candidates:    oracle.Candidates(candidates),
		Level:         level,
		ParentCode:    parent,
		MaxSelections: r.e.opts.MaxSelectionsPerLevel,
		MinConfidence: r.e.opts.MinConfidence,
	}
	resp, err := oracle.Invoke(ctx, r.e.opts.Retry, "select_many", req, r.e.oracle.SelectMany)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return []model.ClassificationResult{model.SentinelResult(level, ReasonRetriesExhausted)}, nil
	}
	r.usage.add(resp.Usage)

	valid := make([]model.ClassificationResult, 0, len(resp.Selections))
	seen := make(map[string]bool, len(resp.Selections))
	for _, s := range resp.Selections {
		if !candidates.Has(s.Code) {
			r.e.log.Warn("discarding selection outside candidate set",
				zap.String("level", level.String()),
				zap.String("parent", parent),
				zap.String("code", s.Code),
			)
			continue
		}
		if seen[s.Code] {
			continue
		}
		seen[s.Code] = true
		valid = append(valid, model.ClassificationResult{
			Level:        level,
			SelectedCode: s.Code,
			Description:  candidates.Description(s.Code),
			Confidence:   s.Confidence,
			Reasoning:    s.Reasoning,
		})
	}
	if len(valid) == 0 {
		return []model.ClassificationResult{model.SentinelResult(level, ReasonNoValidSelection)}, nil
	}

	return r.e.opts.thresholdAndRank(valid), nil
}

// thresholdAndRank keeps the selections at or above MinConfidence, or the
// single best one when none qualify, sorted best first and capped at
// MaxSelectionsPerLevel.
func (o Options) thresholdAndRank(results []model.ClassificationResult) []model.ClassificationResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	kept := make([]model.ClassificationResult, 0, len(results))
	for _, res := range results {
		if res.Confidence >= o.MinConfidence {
			kept = append(kept, res)
		}
	}
	if len(kept) == 0 {
		kept = results[:1]
	}
	if len(kept) > o.MaxSelectionsPerLevel {
		kept = kept[:o.MaxSelectionsPerLevel]
	}
	return kept
}
