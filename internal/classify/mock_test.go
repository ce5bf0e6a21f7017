package classify

import (
	"context"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/notes"
	"github.com/sells-group/hs-classifier/internal/oracle"
	"github.com/sells-group/hs-classifier/internal/taxonomy"
)

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) SelectOne(ctx context.Context, req oracle.SelectRequest) (*oracle.SelectResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*oracle.SelectResponse)
	return resp, args.Error(1)
}

func (m *mockOracle) SelectMany(ctx context.Context, req oracle.MultiSelectRequest) (*oracle.MultiSelectResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*oracle.MultiSelectResponse)
	return resp, args.Error(1)
}

func (m *mockOracle) Compare(ctx context.Context, req oracle.CompareRequest) (*oracle.CompareResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*oracle.CompareResponse)
	return resp, args.Error(1)
}

// oneAt matches a single-selection request at level under parent whose
// candidates all descend from parent.
func oneAt(level model.Level, parent string) any {
	return mock.MatchedBy(func(r oracle.SelectRequest) bool {
		return r.Level == level && r.ParentCode == parent && childrenOnly(r.Candidates, parent)
	})
}

// manyAt is oneAt for multi-selection requests.
func manyAt(level model.Level, parent string) any {
	return mock.MatchedBy(func(r oracle.MultiSelectRequest) bool {
		return r.Level == level && r.ParentCode == parent && childrenOnly(r.Candidates, parent)
	})
}

func childrenOnly(cands []oracle.Candidate, parent string) bool {
	for _, c := range cands {
		if !strings.HasPrefix(c.Code, parent) {
			return false
		}
	}
	return true
}

func one(code string, conf float64) *oracle.SelectResponse {
	return &oracle.SelectResponse{
		Code:       code,
		Confidence: conf,
		Reasoning:  "picked " + code,
		Usage:      model.TokenUsage{Calls: 1, InputTokens: 100, OutputTokens: 10},
	}
}

func many(pairs ...any) *oracle.MultiSelectResponse {
	resp := &oracle.MultiSelectResponse{Usage: model.TokenUsage{Calls: 1, InputTokens: 100, OutputTokens: 10}}
	for i := 0; i+1 < len(pairs); i += 2 {
		code := pairs[i].(string)
		resp.Selections = append(resp.Selections, oracle.Selection{
			Code:       code,
			Confidence: pairs[i+1].(float64),
			Reasoning:  "picked " + code,
		})
	}
	return resp
}

func testTaxonomy() *taxonomy.Store {
	return taxonomy.New([]model.TaxonomyCode{
		{Code: "84", Description: "Machinery", Level: model.LevelChapter},
		{Code: "85", Description: "Electrical machinery", Level: model.LevelChapter},
		{Code: "90", Description: "Optical instruments", Level: model.LevelChapter},
		{Code: "8471", Description: "Automatic data processing machines", Level: model.LevelHeading},
		{Code: "8473", Description: "Parts for 8470-8472", Level: model.LevelHeading},
		{Code: "8517", Description: "Telephone sets", Level: model.LevelHeading},
		{Code: "8518", Description: "Microphones and loudspeakers", Level: model.LevelHeading},
		{Code: "847130", Description: "Portable machines", Level: model.LevelSubheading},
		{Code: "847141", Description: "Other machines", Level: model.LevelSubheading},
		{Code: "847330", Description: "Parts of 8471", Level: model.LevelSubheading},
		{Code: "851713", Description: "Smartphones", Level: model.LevelSubheading},
		{Code: "851830", Description: "Headphones", Level: model.LevelSubheading},
	})
}

func noSleep(context.Context, time.Duration) error { return nil }

func testOptions() Options {
	opts := DefaultOptions()
	opts.Retry.Sleep = noSleep
	return opts
}

func testEngine(o oracle.Oracle) *Engine {
	return New(testTaxonomy(), o, notes.Source{
		"84": "Chapter 84 covers machinery.",
		"85": "Chapter 85 covers electrical equipment.",
	}, testOptions())
}
