package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/hs-classifier/internal/model"
)

func res(level model.Level, code string, conf float64) model.ClassificationResult {
	return model.ClassificationResult{Level: level, SelectedCode: code, Confidence: conf}
}

func TestBuildPaths_CrossProductOfProducedTriples(t *testing.T) {
	ch84 := res(model.LevelChapter, "84", 0.9)
	ch85 := res(model.LevelChapter, "85", 0.7)
	branches := []headingBranch{
		{chapter: ch84, heading: res(model.LevelHeading, "8471", 0.8), subheadings: []model.ClassificationResult{
			res(model.LevelSubheading, "847130", 0.9), res(model.LevelSubheading, "847141", 0.6),
		}},
		{chapter: ch84, heading: res(model.LevelHeading, "8473", 0.5), subheadings: []model.ClassificationResult{
			res(model.LevelSubheading, "847330", 0.7),
		}},
		{chapter: ch85, heading: res(model.LevelHeading, "8517", 0.9)},
	}

	paths := buildPaths(branches)
	assert.Len(t, paths, 3)
	for _, p := range paths {
		assert.Equal(t, p.ChapterCode, p.HeadingCode[:2])
		assert.Equal(t, p.HeadingCode, p.SubheadingCode[:4])
	}
}

func TestRankPaths(t *testing.T) {
	var paths []model.ClassificationPath
	for i := 0; i < 25; i++ {
		paths = append(paths, model.ClassificationPath{
			SubheadingCode: string(rune('a' + i)),
			PathConfidence: float64((i*7)%25) / 25,
		})
	}

	ranked := rankPaths(paths, 10)
	assert.Len(t, ranked, 10)
	assert.InDelta(t, 24.0/25, ranked[0].PathConfidence, 1e-9)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].PathConfidence, ranked[i].PathConfidence)
	}

	assert.Len(t, rankPaths(paths[:3], 10), 3)
	assert.Empty(t, rankPaths(nil, 10))
}

func TestChapterCodes(t *testing.T) {
	paths := []model.ClassificationPath{
		{ChapterCode: "85"}, {ChapterCode: "84"}, {ChapterCode: "85"},
	}
	assert.Equal(t, []string{"85", "84"}, chapterCodes(paths))
}

func TestSentinelPath(t *testing.T) {
	p := sentinelPath()
	assert.Equal(t, model.SentinelCode, p.ChapterCode)
	assert.Equal(t, model.SentinelCode, p.SubheadingCode)
	assert.Zero(t, p.PathConfidence)
}
