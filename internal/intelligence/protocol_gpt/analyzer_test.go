package protocol_gpt

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/protoscribe/pkg/errors"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// scriptedClient answers each analysis task with a canned response, keyed on
// the prompt shape.
type scriptedClient struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *scriptedClient) Provider() string { return "scripted" }

func (c *scriptedClient) GenerateChatCompletion(_ context.Context, messages []Message) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}

	system := messages[0].Content
	user := messages[1].Content
	switch {
	case system == systemWriter:
		return `{"suggested_text": "Add the missing element.", "confidence": 0.9}`, nil
	case system == systemConsistency:
		return `[{"consistency_issue": "endpoint mismatch", "affected_sections": ["Outcomes"], "severity": "high", "recommendation": "align endpoints"}]`, nil
	case system == systemExecSummary:
		return "The protocol is in good shape overall.", nil
	case strings.Contains(user, "clarity and completeness issues"):
		return `[{"issue_type": "clarity", "section": "Methods", "problem": "vague", "impact": "risk", "suggestion": "be specific", "priority": "medium"}]`, nil
	default:
		return `[{"type": "clarity", "section": "General", "issue": "wording", "suggestion": "tighten", "confidence": 6}]`, nil
	}
}

func failedItems(n int) []ptypes.FailedItem {
	items := make([]ptypes.FailedItem, n)
	for i := range items {
		items[i] = ptypes.FailedItem{
			ItemID:      string(rune('a' + i)),
			Description: "Trial identifier and registry name",
			Section:     "Administrative information",
			Guideline:   ptypes.GuidelineSPIRIT,
		}
	}
	return items
}

func TestComprehensive(t *testing.T) {
	client := &scriptedClient{}
	a := NewAnalyzer(client, nil)

	result := a.Comprehensive(context.Background(), "content", map[string]string{"Methods": "m"}, failedItems(2))
	require.NotNil(t, result)
	assert.Equal(t, "scripted", result.Provider)
	assert.False(t, result.AnalyzedAt.IsZero())
	assert.Len(t, result.MissingItemsAnalysis, 2)
	assert.Equal(t, "Add the missing element.", result.MissingItemsAnalysis[0].SuggestedText)
	require.Len(t, result.ClarityAnalysis, 1)
	assert.Equal(t, "vague", result.ClarityAnalysis[0].Problem)
	require.Len(t, result.ConsistencyAnalysis, 1)
	assert.Equal(t, "endpoint mismatch", result.ConsistencyAnalysis[0].Issue)
	assert.Equal(t, "The protocol is in good shape overall.", result.ExecutiveSummary)
}

func TestComprehensive_LimitsItemCalls(t *testing.T) {
	client := &scriptedClient{}
	a := NewAnalyzer(client, nil)

	result := a.Comprehensive(context.Background(), "content", nil, failedItems(8))
	assert.Len(t, result.MissingItemsAnalysis, maxItemSuggestions)
	// Five item calls plus clarity, consistency and summary.
	assert.Equal(t, maxItemSuggestions+3, client.calls)
}

func TestComprehensive_NoClientFallsBack(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	result := a.Comprehensive(context.Background(), "content", nil, nil)
	assert.Equal(t, "fallback", result.Provider)
	assert.Empty(t, result.MissingItemsAnalysis)
	require.Len(t, result.ClarityAnalysis, 1)
	assert.Equal(t, "AI analysis unavailable", result.ClarityAnalysis[0].Problem)
	assert.Equal(t, fallbackExecutiveSummary, result.ExecutiveSummary)
}

func TestComprehensive_TaskFailuresYieldEmptyResults(t *testing.T) {
	client := &scriptedClient{err: errors.New(errors.ErrCodeAIRequestFailed, "provider down")}
	a := NewAnalyzer(client, nil)

	result := a.Comprehensive(context.Background(), "content", nil, failedItems(1))
	assert.Equal(t, "scripted", result.Provider)
	assert.Empty(t, result.MissingItemsAnalysis)
	assert.Empty(t, result.ClarityAnalysis)
	assert.Empty(t, result.ConsistencyAnalysis)
	assert.Equal(t, "Executive summary could not be generated due to technical issues.", result.ExecutiveSummary)
}

func TestSuggestions(t *testing.T) {
	client := &scriptedClient{}
	a := NewAnalyzer(client, nil)

	suggestions := a.Suggestions(context.Background(), "content", failedItems(2))
	// Two item suggestions plus one general suggestion.
	require.Len(t, suggestions, 3)
	assert.Equal(t, "missing_item", suggestions[0].Type)
	assert.Equal(t, "general_1", suggestions[2].ItemID)
}

func TestSuggestions_NoClientFallsBack(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	suggestions := a.Suggestions(context.Background(), "content", nil)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "fallback_1", suggestions[0].ItemID)
	assert.Equal(t, 0.1, suggestions[0].Confidence)
}

func TestAvailable(t *testing.T) {
	assert.False(t, NewAnalyzer(nil, nil).Available())
	assert.True(t, NewAnalyzer(&scriptedClient{}, nil).Available())
}
