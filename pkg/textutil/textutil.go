// Package textutil contains small text-processing helpers shared across the
// document and compliance layers: whitespace normalization, keyword and
// sentence extraction, section-name normalization, and a lightweight
// Jaccard-based similarity search used as a fallback when keyword matching
// finds nothing.
package textutil

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	specialCharRe   = regexp.MustCompile(`[^\w\s.,;:!?\-()]`)
	wordRe          = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)
	sectionNumberRe = regexp.MustCompile(`^\d+\.?\s*`)
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
)

// stopWords are filtered out of extracted keyword sets.
var stopWords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "have": {}, "will": {}, "been": {},
	"were": {}, "they": {}, "them": {}, "from": {}, "into": {}, "would": {},
	"could": {}, "should": {}, "about": {}, "other": {}, "which": {},
	"their": {}, "there": {}, "where": {}, "when": {}, "what": {},
	"then": {}, "than": {}, "some": {}, "more": {}, "very": {}, "also": {},
	"each": {}, "such": {}, "only": {}, "many": {}, "most": {},
}

// Clean collapses runs of whitespace to single spaces and strips characters
// outside the word/punctuation set that interfere with matching.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialCharRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractKeywords returns the unique lowercase words of at least four letters
// in text, minus stop words.  Order is not guaranteed.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

// FormatFileSize renders a byte count as a human-readable string (B/KB/MB/GB).
func FormatFileSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(sizeBytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

// ValidFileType reports whether filename's extension is in allowedTypes
// (extensions given with a leading dot, e.g. ".pdf").
func ValidFileType(filename string, allowedTypes []string) bool {
	if filename == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedTypes {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// Truncate shortens text to maxLen characters, appending "..." when cut. The
// cut falls on a rune boundary so the result stays valid UTF-8.
func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	count := 0
	for i := range text {
		if count == maxLen {
			return text[:i] + "..."
		}
		count++
	}
	return text
}

// CompletenessScore is the percentage of passed items over total, rounded to
// one decimal place.  An empty item set scores 0.
func CompletenessScore(total, passed int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(passed) / float64(total) * 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	if v < 0 {
		return -Round1(-v)
	}
	return float64(int(v*10+0.5)) / 10
}

// NormalizeSectionName lowercases a heading, strips leading numbering and
// parenthetical qualifiers, and collapses whitespace so that "3.1 Outcomes
// (primary)" and "outcomes" compare equal.
func NormalizeSectionName(name string) string {
	if name == "" {
		return ""
	}
	normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(name)), " ")
	normalized = sectionNumberRe.ReplaceAllString(normalized, "")
	normalized = parentheticalRe.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}

// ExtractSentences splits text on sentence terminators and returns trimmed
// sentences longer than ten characters.
func ExtractSentences(text string) []string {
	if text == "" {
		return nil
	}
	var sentences []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// SimilarMatch is the result of a FindSimilar search.
type SimilarMatch struct {
	Found      bool    `json:"found"`
	Similarity float64 `json:"similarity"`
	Text       string  `json:"text"`
}

// FindSimilar scans the sentences of haystack for the one most similar to
// needle by Jaccard word-set similarity, returning a match only when the best
// similarity reaches minSimilarity.
func FindSimilar(needle, haystack string, minSimilarity float64) SimilarMatch {
	if needle == "" || haystack == "" {
		return SimilarMatch{}
	}
	needleWords := wordSet(needle)
	best := SimilarMatch{}
	for _, sentence := range ExtractSentences(haystack) {
		similarity := jaccard(needleWords, wordSet(sentence))
		if similarity >= minSimilarity && similarity > best.Similarity {
			best = SimilarMatch{Found: true, Similarity: similarity, Text: sentence}
		}
	}
	return best
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
