package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		chapter, head, leaf float64
		want                float64
	}{
		{"worked example", 0.9, 0.85, 0.95, 0.905},
		{"chapter only", 1, 0, 0, 0.3},
		{"heading only", 0, 1, 0, 0.3},
		{"subheading only", 0, 0, 1, 0.4},
		{"all certain", 1, 1, 1, 1.0},
		{"all zero", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, OverallConfidence(tt.chapter, tt.head, tt.leaf), 1e-9)
		})
	}
}

func TestWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, WeightChapter+WeightHeading+WeightSubheading, 1e-12)
}

func TestSentinelResult(t *testing.T) {
	r := SentinelResult(LevelHeading, "retries exhausted")
	assert.True(t, r.IsSentinel())
	assert.Equal(t, LevelHeading, r.Level)
	assert.Equal(t, SentinelCode, r.SelectedCode)
	assert.Zero(t, r.Confidence)
	assert.Equal(t, "retries exhausted", r.Reasoning)
}

func TestNewClassificationPath(t *testing.T) {
	p := NewClassificationPath(
		ClassificationResult{Level: LevelChapter, SelectedCode: "84", Description: "Machinery", Confidence: 0.9, Reasoning: "c"},
		ClassificationResult{Level: LevelHeading, SelectedCode: "8471", Description: "Computers", Confidence: 0.85, Reasoning: "h"},
		ClassificationResult{Level: LevelSubheading, SelectedCode: "847130", Description: "Portable", Confidence: 0.95, Reasoning: "s"},
	)

	assert.Equal(t, "84", p.ChapterCode)
	assert.Equal(t, "8471", p.HeadingCode)
	assert.Equal(t, "847130", p.SubheadingCode)
	assert.Equal(t, "Portable", p.SubheadingDescription)
	assert.Equal(t, "h", p.HeadingReasoning)
	assert.InDelta(t, 0.905, p.PathConfidence, 1e-9)
}

func TestOutcomeWrappers(t *testing.T) {
	single := SingleOutcome(&SinglePathResult{FinalCode: "847130", OverallConfidence: 0.9, Usage: TokenUsage{Calls: 3}})
	assert.Equal(t, ModeSingle, single.Mode)
	assert.Equal(t, "847130", single.FinalCode)
	assert.Equal(t, 3, single.Usage.Calls)
	assert.Nil(t, single.Multi)

	multi := MultiOutcome(&MultiPathResult{FinalCode: SentinelCode})
	assert.Equal(t, ModeMulti, multi.Mode)
	assert.Equal(t, SentinelCode, multi.FinalCode)
	assert.Nil(t, multi.Single)
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeSingle.Valid())
	assert.True(t, ModeMulti.Valid())
	assert.False(t, Mode("greedy").Valid())
}
