package classify

import "github.com/rotisserie/eris"

var (
	// ErrInvalidSelection means a single selection named a code outside the
	// candidate set.
	ErrInvalidSelection = eris.New("classify: oracle selected a code outside the candidate set")

	// ErrInvalidComparison means the comparator named a code that is not the
	// subheading of any presented path.
	ErrInvalidComparison = eris.New("classify: comparator selected a code outside the presented paths")
)

// Reasoning strings attached to sentinel results the engine produces itself.
const (
	ReasonRetriesExhausted = "retries exhausted"
	ReasonNoCandidates     = "no candidate codes"
	ReasonParentSentinel   = "parent level produced no classification"
	ReasonNoValidSelection = "oracle returned no valid selections"
	ReasonNoPaths          = "no classification path could be built"
)
