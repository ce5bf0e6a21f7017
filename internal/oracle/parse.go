package oracle

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// cleanJSON strips markdown fences and extracts the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func parseSelect(text string) (*SelectResponse, error) {
	var raw struct {
		SelectedCode string  `json:"selected_code"`
		Confidence   float64 `json:"confidence"`
		Reasoning    string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "oracle: parse selection")
	}
	code := strings.TrimSpace(raw.SelectedCode)
	if code == "" {
		return nil, eris.New("oracle: parse selection: missing selected_code")
	}
	return &SelectResponse{
		Code:       code,
		Confidence: clamp01(raw.Confidence),
		Reasoning:  raw.Reasoning,
	}, nil
}

func parseSelectMany(text string) (*MultiSelectResponse, error) {
	var raw struct {
		Selections []Selection `json:"selections"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "oracle: parse selections")
	}
	out := &MultiSelectResponse{Selections: make([]Selection, 0, len(raw.Selections))}
	for _, s := range raw.Selections {
		s.Code = strings.TrimSpace(s.Code)
		if s.Code == "" {
			continue
		}
		s.Confidence = clamp01(s.Confidence)
		out.Selections = append(out.Selections, s)
	}
	return out, nil
}

func parseCompare(text string) (*CompareResponse, error) {
	var raw struct {
		SelectedCode      string  `json:"selected_code"`
		Confidence        float64 `json:"confidence"`
		Reasoning         string  `json:"reasoning"`
		ComparisonSummary string  `json:"comparison_summary"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "oracle: parse comparison")
	}
	code := strings.TrimSpace(raw.SelectedCode)
	if code == "" {
		return nil, eris.New("oracle: parse comparison: missing selected_code")
	}
	return &CompareResponse{
		Code:       code,
		Confidence: clamp01(raw.Confidence),
		Reasoning:  raw.Reasoning,
		Summary:    raw.ComparisonSummary,
	}, nil
}
