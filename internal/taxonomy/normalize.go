package taxonomy

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeCode strips spaces and the dots used in printed tariff schedules
// ("8471.30" becomes "847130").
func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// normalizeDescription returns the NFC form of s with runs of whitespace
// collapsed to single spaces.
func normalizeDescription(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
