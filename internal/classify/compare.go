package classify

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/oracle"
)

// arbitrate asks the comparator to choose among the ranked paths. The chosen
// code must be the sentinel or the subheading of a presented path.
func (r *run) arbitrate(ctx context.Context, paths []model.ClassificationPath) (*model.MultiPathResult, error) {
	res := &model.MultiPathResult{
		Description: r.description,
		Paths:       paths,
	}

	req := oracle.CompareRequest{
		Description:  r.description,
		Paths:        paths,
		ChapterNotes: r.e.notes.NotesFor(chapterCodes(paths)),
	}
	resp, err := oracle.Invoke(ctx, r.e.opts.Retry, "compare", req, r.e.oracle.Compare)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		res.FinalCode = model.SentinelCode
		res.FinalConfidence = 0
		res.FinalReasoning = ReasonRetriesExhausted
		return res, nil
	}
	r.usage.add(resp.Usage)

	if !model.IsSentinel(resp.Code) && !presented(paths, resp.Code) {
		r.e.log.Error("comparator selected unknown code",
			zap.String("code", resp.Code), zap.Int("paths", len(paths)))
		return nil, eris.Wrapf(ErrInvalidComparison, "code %q", resp.Code)
	}

	res.FinalCode = resp.Code
	res.FinalConfidence = resp.Confidence
	res.FinalReasoning = resp.Reasoning
	res.ComparisonSummary = resp.Summary
	return res, nil
}

func presented(paths []model.ClassificationPath, code string) bool {
	for _, p := range paths {
		if p.SubheadingCode == code {
			return true
		}
	}
	return false
}
