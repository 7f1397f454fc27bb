package question

import (
	"strings"
	"unicode"
)

// normalizeQuery canonicalizes a search query for trending counters so
// that "Derivative rules?" and "derivative rules" count as one entry.
func normalizeQuery(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// punctuation and whitespace both collapse to a single space
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}
