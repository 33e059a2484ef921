package protocol_gpt

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/turtacn/protoscribe/pkg/textutil"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

const (
	maxExtractedFindings = 5
	fallbackTextLimit    = 500

	// Confidence assigned when a response could not be parsed as JSON.
	parseFailConfidence = 0.5
	// Confidence assigned to suggestions salvaged from free-form text.
	extractedConfidence = 0.6
)

// Markers for salvaging findings from free-form responses when strict JSON
// parsing fails. A point runs from its marker line to the next marker or a
// blank line.
var (
	numberedLineRe = regexp.MustCompile(`^\s*\d+\.\s*(.*)`)
	bulletLineRe   = regexp.MustCompile(`^\s*[-*]\s*(.*)`)
)

// itemSuggestionJSON is the shape the item-suggestion prompt asks for.
type itemSuggestionJSON struct {
	SuggestedText         string   `json:"suggested_text"`
	PlacementGuidance     string   `json:"placement_guidance"`
	Explanation           string   `json:"explanation"`
	Confidence            *float64 `json:"confidence"`
	AlternativeApproaches []string `json:"alternative_approaches"`
	RegulatoryContext     string   `json:"regulatory_context"`
}

// parseItemSuggestion turns a provider response into a suggestion for one
// missing checklist item. Non-JSON responses become a lower-confidence
// suggestion quoting the raw text.
func parseItemSuggestion(response string, item ptypes.FailedItem) ptypes.Suggestion {
	var parsed itemSuggestionJSON
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		text := response
		if text == "" {
			text = "No suggestion available"
		}
		return ptypes.Suggestion{
			ItemID:        item.ItemID,
			Type:          "missing_item",
			Section:       item.Section,
			Issue:         "Missing: " + item.Description,
			SuggestedText: excerpt(text, fallbackTextLimit),
			Explanation:   "AI-generated suggestion",
			Confidence:    extractedConfidence,
			Guideline:     item.Guideline,
		}
	}

	confidence := parseFailConfidence
	if parsed.Confidence != nil {
		confidence = normalizeConfidence(*parsed.Confidence)
	}
	return ptypes.Suggestion{
		ItemID:                item.ItemID,
		Type:                  "missing_item",
		Section:               item.Section,
		Issue:                 "Missing: " + item.Description,
		SuggestedText:         parsed.SuggestedText,
		PlacementGuidance:     parsed.PlacementGuidance,
		Explanation:           parsed.Explanation,
		Confidence:            confidence,
		AlternativeApproaches: parsed.AlternativeApproaches,
		RegulatoryContext:     parsed.RegulatoryContext,
		Guideline:             item.Guideline,
	}
}

// generalSuggestionJSON is one element of the general-improvement array the
// prompt asks for. Confidence arrives on a 1-10 scale.
type generalSuggestionJSON struct {
	Type       string   `json:"type"`
	Section    string   `json:"section"`
	Issue      string   `json:"issue"`
	Suggestion string   `json:"suggestion"`
	Confidence *float64 `json:"confidence"`
}

// parseGeneralSuggestions parses the improvement array, falling back to
// bullet extraction on non-JSON responses.
func parseGeneralSuggestions(response string) []ptypes.Suggestion {
	var parsed []generalSuggestionJSON
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return extractSuggestionsFromText(response)
	}

	suggestions := make([]ptypes.Suggestion, 0, len(parsed))
	for _, item := range parsed {
		confidence := parseFailConfidence
		if item.Confidence != nil {
			confidence = normalizeConfidence(*item.Confidence)
		}
		suggType := item.Type
		if suggType == "" {
			suggType = "general"
		}
		section := item.Section
		if section == "" {
			section = "General"
		}
		suggestions = append(suggestions, ptypes.Suggestion{
			ItemID:        fmt.Sprintf("general_%d", len(suggestions)+1),
			Type:          suggType,
			Section:       section,
			Issue:         item.Issue,
			Explanation:   item.Issue,
			SuggestedText: item.Suggestion,
			Confidence:    confidence,
			Reasoning:     item.Suggestion,
			Guideline:     "General",
		})
	}
	return suggestions
}

// extractSuggestionsFromText salvages numbered or bulleted points from an
// unstructured response.
func extractSuggestionsFromText(text string) []ptypes.Suggestion {
	var suggestions []ptypes.Suggestion
	for _, point := range extractListPoints(text) {
		suggestions = append(suggestions, ptypes.Suggestion{
			ItemID:        fmt.Sprintf("extracted_%d", len(suggestions)+1),
			Type:          "general",
			Section:       "General",
			Issue:         "General improvement opportunity",
			Explanation:   textutil.Truncate(point, 200),
			SuggestedText: point,
			Confidence:    extractedConfidence,
			Reasoning:     "Extracted from LLM response",
			Guideline:     "General",
		})
		if len(suggestions) == maxExtractedFindings {
			break
		}
	}
	return suggestions
}

// parseClarityAnalysis parses the clarity-finding array, salvaging generic
// findings from free-form text when JSON parsing fails.
func parseClarityAnalysis(response string) []ptypes.ClarityIssue {
	var parsed []ptypes.ClarityIssue
	if err := json.Unmarshal([]byte(response), &parsed); err == nil {
		return parsed
	}

	var issues []ptypes.ClarityIssue
	for _, point := range extractListPoints(response) {
		issues = append(issues, ptypes.ClarityIssue{
			IssueType:  "clarity",
			Section:    "General",
			Problem:    textutil.Truncate(point, 200),
			Impact:     "Affects protocol quality",
			Suggestion: "Review and revise as needed",
			Priority:   "medium",
		})
		if len(issues) == maxExtractedFindings {
			break
		}
	}
	return issues
}

// parseConsistencyAnalysis parses the consistency-finding array, salvaging
// generic findings from free-form text when JSON parsing fails.
func parseConsistencyAnalysis(response string) []ptypes.ConsistencyIssue {
	var parsed []ptypes.ConsistencyIssue
	if err := json.Unmarshal([]byte(response), &parsed); err == nil {
		return parsed
	}

	var issues []ptypes.ConsistencyIssue
	for _, point := range extractListPoints(response) {
		issues = append(issues, ptypes.ConsistencyIssue{
			Issue:            textutil.Truncate(point, 200),
			AffectedSections: []string{"General"},
			Severity:         "medium",
			Recommendation:   "Review and resolve the inconsistency",
		})
		if len(issues) == maxExtractedFindings {
			break
		}
	}
	return issues
}

// extractListPoints pulls the text of numbered points first, then bulleted
// points, from a free-form response.
func extractListPoints(text string) []string {
	return append(scanPoints(text, numberedLineRe), scanPoints(text, bulletLineRe)...)
}

func scanPoints(text string, marker *regexp.Regexp) []string {
	var (
		points  []string
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		if p := strings.TrimSpace(strings.Join(current, "\n")); p != "" {
			points = append(points, p)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := marker.FindStringSubmatch(line); m != nil {
			flush()
			current = []string{m[1]}
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	flush()
	return points
}

// normalizeConfidence maps a provider confidence onto [0, 1]. Values above 1
// are treated as a 1-10 scale.
func normalizeConfidence(v float64) float64 {
	if v > 1 {
		v = v / 10.0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
