package compliance

import (
	"strings"
	"unicode/utf8"
)

// contextRadius is how many characters of surrounding text are captured
// around the first keyword hit.
const contextRadius = 100

// keywordMatch is the outcome of searching one body of text for an item's
// keywords.
type keywordMatch struct {
	Found      bool
	Confidence float64
	Context    string
	Keywords   []string
}

// searchKeywords counts how many keywords occur in the text, case
// insensitively, and captures the lowercased context around the first hit.
// Confidence is the fraction of keywords found, zero for an empty keyword set.
func searchKeywords(text string, keywords []string) keywordMatch {
	lower := strings.ToLower(text)

	var match keywordMatch
	for _, keyword := range keywords {
		needle := strings.ToLower(keyword)
		idx := strings.Index(lower, needle)
		if idx < 0 {
			continue
		}
		match.Keywords = append(match.Keywords, keyword)

		if match.Context == "" {
			// Indices address lower, not text: ToLower can change the
			// byte length of some runes.
			start := idx - contextRadius
			if start < 0 {
				start = 0
			}
			for start > 0 && !utf8.RuneStart(lower[start]) {
				start--
			}
			end := idx + len(needle) + contextRadius
			if end > len(lower) {
				end = len(lower)
			}
			for end < len(lower) && !utf8.RuneStart(lower[end]) {
				end++
			}
			match.Context = strings.TrimSpace(lower[start:end])
		}
	}

	if len(keywords) > 0 {
		match.Confidence = float64(len(match.Keywords)) / float64(len(keywords))
	}
	match.Found = len(match.Keywords) > 0
	return match
}
