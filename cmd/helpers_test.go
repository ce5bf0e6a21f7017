package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/store"
)

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, description string, mode model.Mode) (*model.Outcome, error) {
	args := m.Called(ctx, description, mode)
	if v := args.Get(0); v != nil {
		return v.(*model.Outcome), args.Error(1)
	}
	return nil, args.Error(1)
}

func singleOutcome(code string, conf float64) *model.Outcome {
	return model.SingleOutcome(&model.SinglePathResult{
		FinalCode:         code,
		OverallConfidence: conf,
		Usage:             model.TokenUsage{Calls: 3},
	})
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}
