// Package taxonomy holds the HS code hierarchy used as candidate sets during
// classification.
package taxonomy

import (
	"strings"

	"github.com/sells-group/hs-classifier/internal/model"
)

// Store maps codes to entries, one map per level. It is built once and is
// read-only afterwards, so it may be shared by concurrent classifications.
type Store struct {
	levels map[model.Level]model.CodeSet
}

// New builds a Store from codes. A later duplicate replaces an earlier one.
func New(codes []model.TaxonomyCode) *Store {
	s := &Store{levels: make(map[model.Level]model.CodeSet, len(model.Levels))}
	for _, l := range model.Levels {
		s.levels[l] = model.CodeSet{}
	}
	for _, c := range codes {
		set, ok := s.levels[c.Level]
		if !ok {
			continue
		}
		set[c.Code] = c
	}
	return s
}

// CodesAtLevel returns every code at level. Callers must not modify the
// returned set.
func (s *Store) CodesAtLevel(level model.Level) model.CodeSet {
	return s.levels[level]
}

// ChildrenOf returns the codes at level that start with parent.
func (s *Store) ChildrenOf(parent string, level model.Level) model.CodeSet {
	out := model.CodeSet{}
	if parent == "" || model.IsSentinel(parent) {
		return out
	}
	for code, tc := range s.levels[level] {
		if strings.HasPrefix(code, parent) {
			out[code] = tc
		}
	}
	return out
}

// Lookup returns the entry for code at any level.
func (s *Store) Lookup(code string) (model.TaxonomyCode, bool) {
	level, ok := model.LevelOf(code)
	if !ok {
		return model.TaxonomyCode{}, false
	}
	tc, ok := s.levels[level][code]
	return tc, ok
}

// Counts returns the number of codes per level.
func (s *Store) Counts() map[model.Level]int {
	out := make(map[model.Level]int, len(s.levels))
	for l, set := range s.levels {
		out[l] = len(set)
	}
	return out
}

// Len returns the total number of codes.
func (s *Store) Len() int {
	n := 0
	for _, set := range s.levels {
		n += len(set)
	}
	return n
}
