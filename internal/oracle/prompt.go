package oracle

import (
	"fmt"
	"strings"

	"github.com/sells-group/hs-classifier/internal/model"
)

const systemPrompt = `You are a customs classification expert working with the Harmonized System (HS).
You classify product descriptions into the HS hierarchy: 2-digit chapters, 4-digit headings and 6-digit subheadings.
Only ever answer with codes taken from the candidate list you are given, or with the code 000000 when none of the candidates fits.
Respond with a single JSON object and nothing else.`

// prompt is a rendered oracle request.
type prompt struct {
	System string
	User   string
}

func renderSelect(req SelectRequest) prompt {
	var b strings.Builder
	writeTask(&b, req.Description, req.Level, req.ParentCode)
	writeCandidates(&b, req.Candidates)
	b.WriteString("\nSelect the single best code.\n")
	b.WriteString(`Respond as {"selected_code": "<code>", "confidence": <0.0-1.0>, "reasoning": "<why>"}`)
	return prompt{System: systemPrompt, User: perturb(b.String(), req.Variation)}
}

func renderSelectMany(req MultiSelectRequest) prompt {
	var b strings.Builder
	writeTask(&b, req.Description, req.Level, req.ParentCode)
	writeCandidates(&b, req.Candidates)
	fmt.Fprintf(&b, "\nSelect between 1 and %d plausible codes, each with confidence of at least %.2f, best first.\n",
		req.MaxSelections, req.MinConfidence)
	b.WriteString(`Respond as {"selections": [{"code": "<code>", "confidence": <0.0-1.0>, "reasoning": "<why>"}]}`)
	return prompt{System: systemPrompt, User: perturb(b.String(), req.Variation)}
}

func renderCompare(req CompareRequest) prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Product description: %s\n\n", req.Description)
	b.WriteString("Candidate classification paths:\n")
	for i, p := range req.Paths {
		fmt.Fprintf(&b, "\nPath %d (confidence %.3f)\n", i+1, p.PathConfidence)
		fmt.Fprintf(&b, "  Chapter %s: %s\n    Reasoning: %s\n", p.ChapterCode, p.ChapterDescription, p.ChapterReasoning)
		fmt.Fprintf(&b, "  Heading %s: %s\n    Reasoning: %s\n", p.HeadingCode, p.HeadingDescription, p.HeadingReasoning)
		fmt.Fprintf(&b, "  Subheading %s: %s\n    Reasoning: %s\n", p.SubheadingCode, p.SubheadingDescription, p.SubheadingReasoning)
	}
	fmt.Fprintf(&b, "\nChapter notes:\n%s\n", req.ChapterNotes)
	b.WriteString("\nPick the single best subheading code from the paths above, or 000000 if none applies.\n")
	b.WriteString(`Respond as {"selected_code": "<code>", "confidence": <0.0-1.0>, "reasoning": "<why>", "comparison_summary": "<how the paths differ>"}`)
	return prompt{System: systemPrompt, User: perturb(b.String(), req.Variation)}
}

func writeTask(b *strings.Builder, description string, level model.Level, parent string) {
	fmt.Fprintf(b, "Product description: %s\n", description)
	fmt.Fprintf(b, "Classification level: %s (%d digits)\n", level, int(level))
	if parent != "" {
		fmt.Fprintf(b, "Parent code: %s\n", parent)
	}
}

func writeCandidates(b *strings.Builder, candidates []Candidate) {
	b.WriteString("\nCandidates:\n")
	for _, c := range candidates {
		fmt.Fprintf(b, "- %s: %s\n", c.Code, c.Description)
	}
}

// perturb appends n line breaks to the final user message so a retry does
// not replay the exact request that produced a degenerate answer.
func perturb(text string, n int) string {
	if n <= 0 {
		return text
	}
	return text + strings.Repeat("\n", n)
}
