package protocol_gpt

import (
	"time"

	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

const fallbackExecutiveSummary = "AI analysis is currently unavailable. Please ensure your API keys are properly configured for enhanced analysis capabilities."

// fallbackSuggestions is returned by Suggestions when no provider is
// configured.
func fallbackSuggestions() []ptypes.Suggestion {
	return []ptypes.Suggestion{
		{
			ItemID:        "fallback_1",
			Type:          "general",
			Section:       "General",
			Issue:         "LLM service unavailable",
			Explanation:   "AI suggestions are currently unavailable. Please ensure your API key is configured.",
			SuggestedText: "Review protocol against CONSORT/SPIRIT guidelines manually.",
			Confidence:    0.1,
			Reasoning:     "Fallback suggestion - LLM not available",
			Guideline:     "General",
		},
	}
}

func fallbackClarityIssues() []ptypes.ClarityIssue {
	return []ptypes.ClarityIssue{
		{
			IssueType:  "system",
			Section:    "General",
			Problem:    "AI analysis unavailable",
			Impact:     "Manual review required",
			Suggestion: "Configure API keys for AI-powered analysis",
			Priority:   "low",
		},
	}
}

// fallbackAnalysis is the comprehensive result when no provider is
// configured.
func (a *Analyzer) fallbackAnalysis() *ptypes.ComprehensiveAnalysis {
	return &ptypes.ComprehensiveAnalysis{
		MissingItemsAnalysis: []ptypes.Suggestion{},
		ClarityAnalysis:      fallbackClarityIssues(),
		ConsistencyAnalysis:  []ptypes.ConsistencyIssue{},
		ExecutiveSummary:     fallbackExecutiveSummary,
		Provider:             "fallback",
		AnalyzedAt:           time.Now().UTC(),
	}
}
