package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  string
		want  Level
		valid bool
	}{
		{"84", LevelChapter, true},
		{"8471", LevelHeading, true},
		{"847130", LevelSubheading, true},
		{"847", 0, false},
		{"84713000", 0, false},
		{"84a1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			got, ok := LevelOf(tt.code)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLevelNavigation(t *testing.T) {
	assert.Equal(t, Level(0), LevelChapter.Parent())
	assert.Equal(t, LevelChapter, LevelHeading.Parent())
	assert.Equal(t, LevelHeading, LevelSubheading.Parent())
	assert.Equal(t, LevelHeading, LevelChapter.Child())
	assert.Equal(t, Level(0), LevelSubheading.Child())
	assert.Equal(t, "heading", LevelHeading.String())
	assert.Equal(t, "level(3)", Level(3).String())
}

func TestTaxonomyCodeParent(t *testing.T) {
	sub := TaxonomyCode{Code: "847130", Level: LevelSubheading}
	assert.Equal(t, "8471", sub.ParentCode())
	assert.True(t, sub.IsChildOf("8471"))
	assert.False(t, sub.IsChildOf("84"))

	ch := TaxonomyCode{Code: "84", Level: LevelChapter}
	assert.Empty(t, ch.ParentCode())
	assert.False(t, ch.IsChildOf(""))
}

func TestSentinelIsNotARealLevelCode(t *testing.T) {
	assert.True(t, IsSentinel(SentinelCode))
	assert.False(t, IsSentinel("847130"))

	set := CodeSet{"84": {Code: "84", Description: "Machinery", Level: LevelChapter}}
	assert.True(t, set.Has("84"))
	assert.False(t, set.Has(SentinelCode))
	assert.Equal(t, "Machinery", set.Description("84"))
	assert.Empty(t, set.Description("85"))
}

func TestCodeSetCodesSorted(t *testing.T) {
	set := CodeSet{
		"85": {Code: "85"},
		"01": {Code: "01"},
		"84": {Code: "84"},
	}
	assert.Equal(t, []string{"01", "84", "85"}, set.Codes())
	assert.Empty(t, CodeSet{}.Codes())
}
