package model

// Level weights for the overall confidence. The subheading dominates because
// it is the actual deliverable. These are fixed, not configuration.
const (
	WeightChapter    = 0.3
	WeightHeading    = 0.3
	WeightSubheading = 0.4
)

// OverallConfidence combines the three level confidences with the fixed
// level weights.
func OverallConfidence(chapter, heading, subheading float64) float64 {
	return WeightChapter*chapter + WeightHeading*heading + WeightSubheading*subheading
}

// ClassificationResult is the outcome of one selection at one level.
type ClassificationResult struct {
	Level        Level   `json:"level"`
	SelectedCode string  `json:"selected_code"`
	Description  string  `json:"description"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

// IsSentinel reports whether the result carries the no-classification code.
func (r ClassificationResult) IsSentinel() bool {
	return IsSentinel(r.SelectedCode)
}

// SentinelResult builds a no-classification result for level l.
func SentinelResult(l Level, reasoning string) ClassificationResult {
	return ClassificationResult{
		Level:        l,
		SelectedCode: SentinelCode,
		Confidence:   0,
		Reasoning:    reasoning,
	}
}

// ClassificationPath is one complete chapter to subheading selection.
type ClassificationPath struct {
	ChapterCode           string  `json:"chapter_code"`
	ChapterDescription    string  `json:"chapter_description"`
	HeadingCode           string  `json:"heading_code"`
	HeadingDescription    string  `json:"heading_description"`
	SubheadingCode        string  `json:"subheading_code"`
	SubheadingDescription string  `json:"subheading_description"`
	PathConfidence        float64 `json:"path_confidence"`
	ChapterReasoning      string  `json:"chapter_reasoning"`
	HeadingReasoning      string  `json:"heading_reasoning"`
	SubheadingReasoning   string  `json:"subheading_reasoning"`
}

// NewClassificationPath assembles a path from the three level results and
// computes its weighted confidence.
func NewClassificationPath(chapter, heading, subheading ClassificationResult) ClassificationPath {
	return ClassificationPath{
		ChapterCode:           chapter.SelectedCode,
		ChapterDescription:    chapter.Description,
		HeadingCode:           heading.SelectedCode,
		HeadingDescription:    heading.Description,
		SubheadingCode:        subheading.SelectedCode,
		SubheadingDescription: subheading.Description,
		PathConfidence:        OverallConfidence(chapter.Confidence, heading.Confidence, subheading.Confidence),
		ChapterReasoning:      chapter.Reasoning,
		HeadingReasoning:      heading.Reasoning,
		SubheadingReasoning:   subheading.Reasoning,
	}
}

// Mode selects the classification workflow.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Valid reports whether m names a known workflow.
func (m Mode) Valid() bool {
	return m == ModeSingle || m == ModeMulti
}

// SinglePathResult is the output of the greedy single-path workflow.
type SinglePathResult struct {
	Description       string               `json:"description"`
	Chapter           ClassificationResult `json:"chapter"`
	Heading           ClassificationResult `json:"heading"`
	Subheading        ClassificationResult `json:"subheading"`
	FinalCode         string               `json:"final_code"`
	OverallConfidence float64              `json:"overall_confidence"`
	Usage             TokenUsage           `json:"token_usage"`
}

// MultiPathResult is the output of the multi-path workflow: the ranked paths
// plus the arbitrated final code.
type MultiPathResult struct {
	Description       string               `json:"description"`
	Paths             []ClassificationPath `json:"paths"`
	FinalCode         string               `json:"final_code"`
	FinalConfidence   float64              `json:"final_confidence"`
	FinalReasoning    string               `json:"final_reasoning"`
	ComparisonSummary string               `json:"comparison_summary"`
	Usage             TokenUsage           `json:"token_usage"`
}

// Outcome is the mode-independent envelope returned by front ends and
// persisted with a run. Exactly one of Single or Multi is set.
type Outcome struct {
	Mode       Mode              `json:"mode"`
	FinalCode  string            `json:"final_code"`
	Confidence float64           `json:"confidence"`
	Single     *SinglePathResult `json:"single,omitempty"`
	Multi      *MultiPathResult  `json:"multi,omitempty"`
	Usage      TokenUsage        `json:"token_usage"`
}

// SingleOutcome wraps a single-path result.
func SingleOutcome(r *SinglePathResult) *Outcome {
	return &Outcome{
		Mode:       ModeSingle,
		FinalCode:  r.FinalCode,
		Confidence: r.OverallConfidence,
		Single:     r,
		Usage:      r.Usage,
	}
}

// MultiOutcome wraps a multi-path result.
func MultiOutcome(r *MultiPathResult) *Outcome {
	return &Outcome{
		Mode:       ModeMulti,
		FinalCode:  r.FinalCode,
		Confidence: r.FinalConfidence,
		Multi:      r,
		Usage:      r.Usage,
	}
}
