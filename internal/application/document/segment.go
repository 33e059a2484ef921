package document

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/turtacn/protoscribe/pkg/textutil"
)

const defaultSectionName = "Introduction"

var titleKeywords = []string{"trial", "study", "protocol", "research"}

// headingPatterns are the standalone section headings found in clinical
// trial protocols. A stripped line matching one of these opens a new section.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?i)(abstract|summary)$`),
	regexp.MustCompile(`^(?i)(introduction|background)$`),
	regexp.MustCompile(`^(?i)(objectives?|aims?)$`),
	regexp.MustCompile(`^(?i)(methods?|methodology)$`),
	regexp.MustCompile(`^(?i)(study\s+design)$`),
	regexp.MustCompile(`^(?i)(participants?|subjects?|population)$`),
	regexp.MustCompile(`^(?i)(eligibility\s+criteria|inclusion\s+criteria|exclusion\s+criteria)$`),
	regexp.MustCompile(`^(?i)(interventions?|treatments?)$`),
	regexp.MustCompile(`^(?i)(outcomes?|endpoints?)$`),
	regexp.MustCompile(`^(?i)(sample\s+size|statistical\s+analysis)$`),
	regexp.MustCompile(`^(?i)(data\s+collection|data\s+management)$`),
	regexp.MustCompile(`^(?i)(ethics?|ethical\s+considerations)$`),
	regexp.MustCompile(`^(?i)(discussion|limitations)$`),
	regexp.MustCompile(`^(?i)(conclusions?)$`),
	regexp.MustCompile(`^(?i)(references?|bibliography)$`),
}

var (
	numberedHeadingRe = regexp.MustCompile(`^\d+\.?\s+[A-Z]`)
	headingNumberRe   = regexp.MustCompile(`^\d+\.?\s+`)
)

// ExtractTitle picks a document title from the leading lines. A line
// mentioning a trial keyword wins; otherwise the first substantial line,
// then the first non-empty line truncated to 100 characters.
func ExtractTitle(content string) string {
	lines := strings.Split(content, "\n")

	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= 200 {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range titleKeywords {
			if strings.Contains(lower, kw) {
				return line
			}
		}
		if len(line) > 10 {
			return line
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			return textutil.Truncate(line, 100)
		}
	}
	return "Untitled Protocol"
}

// SegmentSections splits content into named sections on recognized headings.
// Content before the first heading lands in "Introduction". Numbered headings
// like "3. Outcomes" also open sections, with the number stripped. Empty
// sections are dropped.
func SegmentSections(content string) map[string]string {
	sections := make(map[string]string)
	currentSection := defaultSectionName
	var currentLines []string

	flush := func() {
		if len(currentLines) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if body != "" {
			sections[currentSection] = body
		}
		currentLines = nil
	}

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)

		if matchesHeading(stripped) {
			flush()
			currentSection = titleCase(stripped)
			continue
		}
		if numberedHeadingRe.MatchString(stripped) {
			flush()
			currentSection = headingNumberRe.ReplaceAllString(stripped, "")
			continue
		}
		currentLines = append(currentLines, line)
	}
	flush()

	return sections
}

func matchesHeading(line string) bool {
	for _, re := range headingPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// titleCase uppercases the first letter of each word and lowercases the rest,
// so "STUDY DESIGN" and "study design" both become "Study Design".
func titleCase(s string) string {
	prevLetter := false
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			if prevLetter {
				return unicode.ToLower(r)
			}
			prevLetter = true
			return unicode.ToUpper(r)
		}
		prevLetter = false
		return r
	}, s)
}
