// Package compliance evaluates protocol text against reporting-guideline
// checklists. Each checklist item is turned into a keyword set, matched
// against the most relevant sections first and the whole document as a
// fallback, and scored by the fraction of keywords found.
package compliance

import (
	"regexp"
	"strings"
)

// keywordRule expands a checklist-item description that matches the pattern
// into domain keywords worth searching for.
type keywordRule struct {
	pattern *regexp.Regexp
	words   []string
}

var keywordRules = []keywordRule{
	{regexp.MustCompile(`randomis?ed|randomization`), []string{"random", "randomized", "randomisation"}},
	{regexp.MustCompile(`blind|blinding|masking`), []string{"blind", "blinding", "masked", "masking"}},
	{regexp.MustCompile(`sample size|power`), []string{"sample size", "power", "participants", "subjects"}},
	{regexp.MustCompile(`primary outcome|endpoint`), []string{"primary outcome", "primary endpoint", "main outcome"}},
	{regexp.MustCompile(`secondary outcome`), []string{"secondary outcome", "secondary endpoint"}},
	{regexp.MustCompile(`inclusion criteria|eligibility`), []string{"inclusion", "eligible", "eligibility criteria"}},
	{regexp.MustCompile(`exclusion criteria`), []string{"exclusion", "excluded"}},
	{regexp.MustCompile(`statistical analysis`), []string{"statistical", "analysis", "statistics"}},
	{regexp.MustCompile(`adverse events?`), []string{"adverse", "side effect", "safety"}},
	{regexp.MustCompile(`consent|informed consent`), []string{"consent", "informed consent"}},
	{regexp.MustCompile(`ethics|ethical`), []string{"ethics", "ethical", "IRB", "ethics committee"}},
}

var descriptionWordRe = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)

// descriptionStopWords are filler words excluded from the per-item keywords.
var descriptionStopWords = map[string]struct{}{
	"with": {}, "that": {}, "this": {}, "they": {}, "were": {}, "been": {},
}

// itemKeywords derives the search keywords for a checklist item description:
// the expansion words of every matching rule plus the substantial words of the
// description itself, deduplicated.
func itemKeywords(description string) []string {
	lower := strings.ToLower(description)

	var keywords []string
	for _, rule := range keywordRules {
		if rule.pattern.MatchString(lower) {
			keywords = append(keywords, rule.words...)
		}
	}

	for _, word := range descriptionWordRe.FindAllString(lower, -1) {
		if _, stop := descriptionStopWords[word]; !stop {
			keywords = append(keywords, word)
		}
	}

	seen := make(map[string]struct{}, len(keywords))
	out := keywords[:0]
	for _, kw := range keywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
