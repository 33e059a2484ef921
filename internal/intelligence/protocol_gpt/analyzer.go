package protocol_gpt

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// maxItemSuggestions caps how many missing items get individual LLM calls in
// one comprehensive run, to stay under provider rate limits.
const maxItemSuggestions = 5

// Analyzer runs LLM-backed protocol analysis. A nil client puts every
// operation into deterministic fallback mode.
type Analyzer struct {
	client Client
	log    logging.Logger
}

// NewAnalyzer builds an analyzer over the given client. client may be nil.
func NewAnalyzer(client Client, log logging.Logger) *Analyzer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Analyzer{client: client, log: log.Named("protocol_gpt")}
}

// Available reports whether a provider is configured.
func (a *Analyzer) Available() bool { return a.client != nil }

// Provider names the configured LLM provider, "fallback" when none is set.
func (a *Analyzer) Provider() string {
	if a.client == nil {
		return "fallback"
	}
	return a.client.Provider()
}

// Comprehensive runs the four analysis tasks concurrently and bundles their
// results. A failed task contributes an empty result rather than failing the
// whole analysis.
func (a *Analyzer) Comprehensive(ctx context.Context, content string, sections map[string]string, missingItems []ptypes.FailedItem) *ptypes.ComprehensiveAnalysis {
	if a.client == nil {
		return a.fallbackAnalysis()
	}

	result := &ptypes.ComprehensiveAnalysis{
		Provider:   a.Provider(),
		AnalyzedAt: time.Now().UTC(),
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		result.MissingItemsAnalysis = a.analyzeMissingItems(ctx, content, missingItems)
	}()
	go func() {
		defer wg.Done()
		result.ClarityAnalysis = a.AnalyzeClarity(ctx, sections)
	}()
	go func() {
		defer wg.Done()
		result.ConsistencyAnalysis = a.AnalyzeConsistency(ctx, sections)
	}()
	go func() {
		defer wg.Done()
		result.ExecutiveSummary = a.ExecutiveSummary(ctx, content)
	}()
	wg.Wait()

	return result
}

// Suggestions generates improvement suggestions: one per missing item plus
// general improvements for the document as a whole.
func (a *Analyzer) Suggestions(ctx context.Context, content string, missingItems []ptypes.FailedItem) []ptypes.Suggestion {
	if a.client == nil {
		return fallbackSuggestions()
	}

	var suggestions []ptypes.Suggestion
	for _, item := range missingItems {
		suggestion, ok := a.itemSuggestion(ctx, content, item)
		if ok {
			suggestions = append(suggestions, suggestion)
		}
	}

	response, err := a.client.GenerateChatCompletion(ctx, generalImprovementPrompt(content))
	if err != nil {
		a.log.Warn("general suggestion generation failed", logging.Err(err))
		return suggestions
	}
	return append(suggestions, parseGeneralSuggestions(response)...)
}

// AnalyzeClarity reviews sections for clarity and completeness issues.
// Failures yield an empty finding list.
func (a *Analyzer) AnalyzeClarity(ctx context.Context, sections map[string]string) []ptypes.ClarityIssue {
	if a.client == nil {
		return fallbackClarityIssues()
	}
	response, err := a.client.GenerateChatCompletion(ctx, clarityPrompt(sections))
	if err != nil {
		a.log.Warn("clarity analysis failed", logging.Err(err))
		return []ptypes.ClarityIssue{}
	}
	return parseClarityAnalysis(response)
}

// AnalyzeConsistency checks sections for internal conflicts. Failures yield
// an empty finding list.
func (a *Analyzer) AnalyzeConsistency(ctx context.Context, sections map[string]string) []ptypes.ConsistencyIssue {
	if a.client == nil {
		return []ptypes.ConsistencyIssue{}
	}
	response, err := a.client.GenerateChatCompletion(ctx, consistencyPrompt(sections))
	if err != nil {
		a.log.Warn("consistency analysis failed", logging.Err(err))
		return []ptypes.ConsistencyIssue{}
	}
	return parseConsistencyAnalysis(response)
}

// ExecutiveSummary produces a short quality assessment of the protocol.
func (a *Analyzer) ExecutiveSummary(ctx context.Context, content string) string {
	if a.client == nil {
		return fallbackExecutiveSummary
	}
	response, err := a.client.GenerateChatCompletion(ctx, executiveSummaryPrompt(content))
	if err != nil {
		a.log.Warn("executive summary generation failed", logging.Err(err))
		return "Executive summary could not be generated due to technical issues."
	}
	return response
}

func (a *Analyzer) analyzeMissingItems(ctx context.Context, content string, missingItems []ptypes.FailedItem) []ptypes.Suggestion {
	if len(missingItems) > maxItemSuggestions {
		missingItems = missingItems[:maxItemSuggestions]
	}
	suggestions := make([]ptypes.Suggestion, 0, len(missingItems))
	for _, item := range missingItems {
		suggestion, ok := a.itemSuggestion(ctx, content, item)
		if ok {
			suggestions = append(suggestions, suggestion)
		}
	}
	return suggestions
}

func (a *Analyzer) itemSuggestion(ctx context.Context, content string, item ptypes.FailedItem) (ptypes.Suggestion, bool) {
	response, err := a.client.GenerateChatCompletion(ctx, itemSuggestionPrompt(item, content))
	if err != nil {
		a.log.Warn("item suggestion failed",
			logging.String("item_id", item.ItemID),
			logging.Err(err))
		return ptypes.Suggestion{}, false
	}
	return parseItemSuggestion(response, item), true
}
