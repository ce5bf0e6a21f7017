// Package notes supplies chapter reference notes to the comparator.
package notes

import (
	"sort"
	"strings"

	"github.com/sells-group/hs-classifier/internal/model"
)

// Placeholder is returned when none of the requested chapters has notes.
const Placeholder = "No chapter notes available."

// Lookup returns the concatenated notes for a set of chapter codes. It never
// fails.
type Lookup interface {
	NotesFor(chapters []string) string
}

// Source maps a chapter code to its note text.
type Source map[string]string

// NotesFor returns the notes of the requested chapters in ascending code
// order, each under a "Chapter <code>" header, separated by blank lines.
// The sentinel and unknown chapters are ignored.
func (s Source) NotesFor(chapters []string) string {
	codes := normalizeChapters(chapters)
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		text := strings.TrimSpace(s[code])
		if text == "" {
			continue
		}
		parts = append(parts, "Chapter "+code+"\n"+text)
	}
	if len(parts) == 0 {
		return Placeholder
	}
	return strings.Join(parts, "\n\n")
}

// normalizeChapters returns the distinct non-sentinel codes, sorted.
func normalizeChapters(chapters []string) []string {
	seen := make(map[string]bool, len(chapters))
	out := make([]string, 0, len(chapters))
	for _, c := range chapters {
		c = strings.TrimSpace(c)
		if c == "" || model.IsSentinel(c) || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
