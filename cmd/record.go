package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/store"
)

// classifyAndRecord runs one classification and, when st is non-nil,
// records it as a run. Store failures are logged and never mask the
// classification outcome.
func classifyAndRecord(ctx context.Context, eng classifier, st store.Store, description string, mode model.Mode) (*model.Outcome, string, error) {
	log := zap.L().With(zap.String("mode", string(mode)))

	var runID string
	if st != nil {
		run, err := st.CreateRun(ctx, description, mode)
		if err != nil {
			log.Warn("create run failed", zap.Error(err))
		} else {
			runID = run.ID
			if err := st.UpdateRunStatus(ctx, runID, model.RunStatusRunning); err != nil {
				log.Warn("update run status failed", zap.String("run_id", runID), zap.Error(err))
			}
		}
	}

	outcome, err := eng.Classify(ctx, description, mode)
	if runID == "" {
		return outcome, runID, err
	}

	// Record with a context that survives request cancellation.
	recCtx := context.WithoutCancel(ctx)
	if err != nil {
		if fErr := st.FailRun(recCtx, runID, err.Error()); fErr != nil {
			log.Warn("fail run failed", zap.String("run_id", runID), zap.Error(fErr))
		}
		return nil, runID, err
	}
	if cErr := st.CompleteRun(recCtx, runID, outcome); cErr != nil {
		log.Warn("complete run failed", zap.String("run_id", runID), zap.Error(cErr))
	}
	return outcome, runID, nil
}
