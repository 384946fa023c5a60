package memory

import "fmt"

// SearchMode selects the retrieval strategy for a search request. It is a
// closed set: parsing anything outside the three supported values fails
// before any store access.
type SearchMode int

const (
	// ModeHybrid attempts vector similarity first and falls back to
	// lexical text matching on failure. It is the default.
	ModeHybrid SearchMode = iota

	// ModeVector performs semantic similarity search over embeddings.
	ModeVector

	// ModeText performs lexical full-text matching on item text.
	ModeText
)

// ParseSearchMode maps the wire value onto a SearchMode. The empty string
// selects the default hybrid mode.
func ParseSearchMode(s string) (SearchMode, error) {
	switch s {
	case "", "hybrid":
		return ModeHybrid, nil
	case "vector":
		return ModeVector, nil
	case "text":
		return ModeText, nil
	default:
		return ModeHybrid, fmt.Errorf("unsupported search type %q (want vector, text, or hybrid)", s)
	}
}

func (m SearchMode) String() string {
	switch m {
	case ModeVector:
		return "vector"
	case ModeText:
		return "text"
	default:
		return "hybrid"
	}
}
