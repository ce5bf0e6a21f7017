package classify

import (
	"sort"

	"github.com/sells-group/hs-classifier/internal/model"
)

// buildPaths forms one path per (chapter, heading, subheading) triple that
// was actually produced.
func buildPaths(branches []headingBranch) []model.ClassificationPath {
	var paths []model.ClassificationPath
	for _, b := range branches {
		for _, sub := range b.subheadings {
			paths = append(paths, model.NewClassificationPath(b.chapter, b.heading, sub))
		}
	}
	return paths
}

// rankPaths sorts by path confidence, best first, and then keeps at most
// limit paths. Truncation happens only after the full sort.
func rankPaths(paths []model.ClassificationPath, limit int) []model.ClassificationPath {
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].PathConfidence > paths[j].PathConfidence
	})
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	return paths
}

func sentinelPath() model.ClassificationPath {
	return model.NewClassificationPath(
		model.SentinelResult(model.LevelChapter, ReasonNoPaths),
		model.SentinelResult(model.LevelHeading, ReasonNoPaths),
		model.SentinelResult(model.LevelSubheading, ReasonNoPaths),
	)
}

// chapterCodes returns the distinct chapter codes across paths, in first
// appearance order.
func chapterCodes(paths []model.ClassificationPath) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if seen[p.ChapterCode] {
			continue
		}
		seen[p.ChapterCode] = true
		out = append(out, p.ChapterCode)
	}
	return out
}
