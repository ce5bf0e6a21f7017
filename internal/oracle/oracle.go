// Package oracle defines the classification oracle and comparator used by the
// engine, plus LLM-backed implementations.
package oracle

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hs-classifier/internal/model"
)

// ErrEmptyResponse is returned when the oracle produced no usable output.
var ErrEmptyResponse = eris.New("oracle: empty response")

// Candidate is one code offered to the oracle.
type Candidate struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Candidates converts a code set to a slice ordered by code.
func Candidates(set model.CodeSet) []Candidate {
	out := make([]Candidate, 0, len(set))
	for _, code := range set.Codes() {
		out = append(out, Candidate{Code: code, Description: set[code].Description})
	}
	return out
}

// SelectRequest asks for the single best code among Candidates.
type SelectRequest struct {
	Description string
	Candidates  []Candidate
	Level       model.Level
	ParentCode  string
	// Variation is the retry attempt index used to perturb the prompt.
	Variation int
}

// WithVariation returns a copy of r with Variation set to n.
func (r SelectRequest) WithVariation(n int) SelectRequest {
	r.Variation = n
	return r
}

// SelectResponse is the oracle's single selection.
type SelectResponse struct {
	Code       string
	Confidence float64
	Reasoning  string
	Usage      model.TokenUsage
}

// MultiSelectRequest asks for up to MaxSelections codes among Candidates.
type MultiSelectRequest struct {
	Description   string
	Candidates    []Candidate
	Level         model.Level
	ParentCode    string
	MaxSelections int
	MinConfidence float64
	Variation     int
}

// WithVariation returns a copy of r with Variation set to n.
func (r MultiSelectRequest) WithVariation(n int) MultiSelectRequest {
	r.Variation = n
	return r
}

// Selection is one entry of a multi-selection response.
type Selection struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// MultiSelectResponse carries the selections in the order the oracle gave
// them. An empty list is a valid response.
type MultiSelectResponse struct {
	Selections []Selection
	Usage      model.TokenUsage
}

// CompareRequest asks the comparator to pick the best of Paths.
type CompareRequest struct {
	Description  string
	Paths        []model.ClassificationPath
	ChapterNotes string
	Variation    int
}

// WithVariation returns a copy of r with Variation set to n.
func (r CompareRequest) WithVariation(n int) CompareRequest {
	r.Variation = n
	return r
}

// CompareResponse is the arbitrated answer.
type CompareResponse struct {
	Code       string
	Confidence float64
	Reasoning  string
	Summary    string
	Usage      model.TokenUsage
}

// Selector makes per-level selections.
type Selector interface {
	SelectOne(ctx context.Context, req SelectRequest) (*SelectResponse, error)
	SelectMany(ctx context.Context, req MultiSelectRequest) (*MultiSelectResponse, error)
}

// Comparator arbitrates between complete classification paths.
type Comparator interface {
	Compare(ctx context.Context, req CompareRequest) (*CompareResponse, error)
}

// Oracle is both a Selector and a Comparator.
type Oracle interface {
	Selector
	Comparator
}
