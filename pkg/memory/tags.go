package memory

import (
	"fmt"
	"strings"
)

// NormalizeTags canonicalizes a set of free-form labels: entries are trimmed,
// lowercased, empties dropped, and duplicates removed while preserving
// first-seen order. Supplying more than MaxTags raw entries is a validation
// failure, never silent truncation. Normalization is idempotent.
func NormalizeTags(tags []string) ([]string, error) {
	if len(tags) > MaxTags {
		return nil, fmt.Errorf("too many tags: %d exceeds the limit of %d", len(tags), MaxTags)
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		out = append(out, cleaned)
	}
	return out, nil
}
