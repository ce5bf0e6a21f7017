package model

import (
	"fmt"
	"sort"
	"strings"
)

// Level is a taxonomy depth measured in code digits.
type Level int

const (
	LevelChapter    Level = 2
	LevelHeading    Level = 4
	LevelSubheading Level = 6
)

// Levels lists the taxonomy levels from the root down.
var Levels = []Level{LevelChapter, LevelHeading, LevelSubheading}

// SentinelCode is the "no classification possible" value. It is never a
// real taxonomy code and always carries zero confidence when produced by
// the engine itself.
const SentinelCode = "000000"

// IsSentinel reports whether code is the no-classification sentinel.
func IsSentinel(code string) bool {
	return code == SentinelCode
}

// String returns the conventional name of the level.
func (l Level) String() string {
	switch l {
	case LevelChapter:
		return "chapter"
	case LevelHeading:
		return "heading"
	case LevelSubheading:
		return "subheading"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Valid reports whether l is one of the three taxonomy levels.
func (l Level) Valid() bool {
	return l == LevelChapter || l == LevelHeading || l == LevelSubheading
}

// Parent returns the level above l. The chapter level has no parent and
// returns 0.
func (l Level) Parent() Level {
	if l <= LevelChapter {
		return 0
	}
	return l - 2
}

// Child returns the level below l, or 0 for subheadings.
func (l Level) Child() Level {
	if l >= LevelSubheading || !l.Valid() {
		return 0
	}
	return l + 2
}

// LevelOf derives the taxonomy level from a code's digit count. Returns
// false if the code is not a 2, 4 or 6 digit string.
func LevelOf(code string) (Level, bool) {
	if code == "" || strings.TrimLeft(code, "0123456789") != "" {
		return 0, false
	}
	l := Level(len(code))
	return l, l.Valid()
}

// TaxonomyCode is one entry of the classification taxonomy.
type TaxonomyCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Level       Level  `json:"level"`
}

// ParentCode returns the code of the entry one level up, or "" for chapters.
func (c TaxonomyCode) ParentCode() string {
	p := c.Level.Parent()
	if p == 0 || len(c.Code) < int(p) {
		return ""
	}
	return c.Code[:p]
}

// IsChildOf reports whether c sits directly beneath parent.
func (c TaxonomyCode) IsChildOf(parent string) bool {
	return parent != "" && c.ParentCode() == parent
}

// CodeSet maps a code to its taxonomy entry. Used as the candidate set for
// every selection.
type CodeSet map[string]TaxonomyCode

// Has reports whether code is a member of the set.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Description returns the description for code, or "" if absent.
func (s CodeSet) Description(code string) string {
	return s[code].Description
}

// Codes returns the member codes in ascending order.
func (s CodeSet) Codes() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
