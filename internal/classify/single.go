package classify

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/model"
)

// singleState is the immutable state of the single-path workflow. Each stage
// returns a new value; earlier stages are never modified.
type singleState struct {
	chapter    model.ClassificationResult
	heading    model.ClassificationResult
	subheading model.ClassificationResult
}

func (s singleState) withChapter(r model.ClassificationResult) singleState {
	s.chapter = r
	return s
}

func (s singleState) withHeading(r model.ClassificationResult) singleState {
	s.heading = r
	return s
}

func (s singleState) withSubheading(r model.ClassificationResult) singleState {
	s.subheading = r
	return s
}

func (s singleState) result(description string, usage model.TokenUsage) *model.SinglePathResult {
	return &model.SinglePathResult{
		Description:       description,
		Chapter:           s.chapter,
		Heading:           s.heading,
		Subheading:        s.subheading,
		FinalCode:         s.subheading.SelectedCode,
		OverallConfidence: model.OverallConfidence(s.chapter.Confidence, s.heading.Confidence, s.subheading.Confidence),
		Usage:             usage,
	}
}

// ClassifySingle descends the taxonomy greedily, one code per level. A
// sentinel at any level short-circuits the levels below it.
func (e *Engine) ClassifySingle(ctx context.Context, description string) (*model.SinglePathResult, error) {
	r := e.newRun(description)
	st := singleState{}

	ch, err := r.selectOne(ctx, model.LevelChapter, "")
	if err != nil {
		return nil, err
	}
	st = st.withChapter(ch)

	hd, err := r.descendOne(ctx, model.LevelHeading, st.chapter)
	if err != nil {
		return nil, err
	}
	st = st.withHeading(hd)

	sub, err := r.descendOne(ctx, model.LevelSubheading, st.heading)
	if err != nil {
		return nil, err
	}
	st = st.withSubheading(sub)

	res := st.result(description, r.usage.snapshot())
	e.log.Info("single-path classification complete",
		zap.String("code", res.FinalCode),
		zap.Float64("confidence", res.OverallConfidence),
		zap.Int("oracle_calls", res.Usage.Calls),
	)
	return res, nil
}

// descendOne selects at level under parent, or returns the sentinel without
// an oracle call when parent is itself the sentinel.
func (r *run) descendOne(ctx context.Context, level model.Level, parent model.ClassificationResult) (model.ClassificationResult, error) {
	if parent.IsSentinel() {
		return model.SentinelResult(level, ReasonParentSentinel), nil
	}
	return r.selectOne(ctx, level, parent.SelectedCode)
}
