package extract

import (
	"strings"
)

// titleRules controls the per-family first-lines title heuristic.
type titleRules struct {
	maxLines int
	minLen   int
	maxLen   int
	// skip reports whether a candidate line is boilerplate or metadata
	// and should not be used as a title.
	skip func(lower string) bool
}

// titleFromText scans the first lines of extracted text and returns the
// first line that looks like a title, or "" when none qualifies. Readers
// like Jina typically put the page title near the top of the output.
func titleFromText(text string, rules titleRules) string {
	lines := strings.Split(text, "\n")
	if len(lines) > rules.maxLines {
		lines = lines[:rules.maxLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= rules.minLen || len(line) >= rules.maxLen {
			continue
		}
		if rules.skip != nil && rules.skip(strings.ToLower(line)) {
			continue
		}
		return line
	}
	return ""
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
