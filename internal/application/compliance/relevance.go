package compliance

import (
	"sort"
	"strings"
)

// sectionBuckets groups related section-name fragments. A checklist item
// whose section hint touches any fragment of a bucket pulls in every section
// whose name touches the same bucket.
var sectionBuckets = map[string][]string{
	"method":       {"method", "design", "procedure"},
	"participant":  {"participant", "subject", "population", "eligibility"},
	"outcome":      {"outcome", "endpoint", "measure"},
	"statistical":  {"statistical", "analysis", "sample"},
	"abstract":     {"abstract", "summary"},
	"introduction": {"introduction", "background"},
	"ethics":       {"ethics", "ethical", "consent"},
}

// relevantSections narrows the section map to those matching the item's
// section hint, by direct substring match and by bucket overlap. When nothing
// matches, the full section map is returned so every item still gets checked
// against real content.
func relevantSections(sections map[string]string, hint string) map[string]string {
	hint = strings.ToLower(hint)
	relevant := make(map[string]string)

	for name, content := range sections {
		if strings.Contains(strings.ToLower(name), hint) {
			relevant[name] = content
		}
	}

	for _, fragments := range sectionBuckets {
		if !anyFragmentIn(hint, fragments) {
			continue
		}
		for name, content := range sections {
			if anyFragmentIn(strings.ToLower(name), fragments) {
				relevant[name] = content
			}
		}
	}

	if len(relevant) == 0 {
		return sections
	}
	return relevant
}

func anyFragmentIn(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// sortedNames gives a stable iteration order over a section map.
func sortedNames(sections map[string]string) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
