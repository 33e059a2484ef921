package protocol

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/protoscribe/internal/application/compliance"
	"github.com/turtacn/protoscribe/internal/domain/guideline"
	domainProtocol "github.com/turtacn/protoscribe/internal/domain/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/database/memory"
	"github.com/turtacn/protoscribe/internal/intelligence/protocol_gpt"
	"github.com/turtacn/protoscribe/pkg/errors"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// partiallyCompliantContent passes some default checklist items and fails
// others, so analyses produce both passed and failed items.
const partiallyCompliantContent = `Identification as a randomised randomized trial: randomisation in the title.
Structured summary of trial design, methods, results and conclusions.
Specific objectives and hypotheses are stated for the primary endpoint.`

// stubLLMClient answers every prompt with the same canned response.
type stubLLMClient struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (c *stubLLMClient) Provider() string { return "scripted" }

func (c *stubLLMClient) GenerateChatCompletion(_ context.Context, _ []protocol_gpt.Message) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

type analysisFixture struct {
	service   *AnalysisService
	protocols *memory.ProtocolStore
	analyses  *memory.AnalysisStore
	id        ptypes.ProtocolID
}

func newAnalysisFixture(t *testing.T, client protocol_gpt.Client) *analysisFixture {
	t.Helper()

	protocols := memory.NewProtocolStore()
	analyses := memory.NewAnalysisStore()
	checker := compliance.NewChecker(guideline.NewRegistry("", nil), nil)
	analyzer := protocol_gpt.NewAnalyzer(client, nil)

	p, err := domainProtocol.NewProtocol("trial.txt", 2048)
	require.NoError(t, err)
	sections := map[string]string{
		"abstract": "Structured summary of trial design, methods, results and conclusions.",
		"methods":  "Participants will be randomised in a 1:1 ratio.",
	}
	require.NoError(t, p.MarkProcessed("Randomized Trial of X", partiallyCompliantContent, sections, 30))
	require.NoError(t, protocols.Save(context.Background(), p))

	return &analysisFixture{
		service:   NewAnalysisService(protocols, analyses, checker, analyzer, nil, nil, nil, nil),
		protocols: protocols,
		analyses:  analyses,
		id:        p.ID,
	}
}

func TestAnalysisService_Compliance(t *testing.T) {
	f := newAnalysisFixture(t, nil)
	ctx := context.Background()

	report, err := f.service.Compliance(ctx, f.id)
	require.NoError(t, err)

	assert.Equal(t, 7, report.TotalItems)
	assert.Greater(t, report.Score, 0.0)
	assert.NotEmpty(t, report.FailedItems)

	records, err := f.analyses.ListByProtocol(ctx, f.id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ptypes.AnalysisCompliance, records[0].Type)
	assert.Equal(t, report.Score, records[0].Score)

	p, err := f.protocols.FindByID(ctx, f.id)
	require.NoError(t, err)
	assert.Equal(t, ptypes.StatusAnalyzed, p.Status)
}

func TestAnalysisService_ComplianceNotProcessed(t *testing.T) {
	f := newAnalysisFixture(t, nil)
	ctx := context.Background()

	raw, err := domainProtocol.NewProtocol("pending.txt", 100)
	require.NoError(t, err)
	require.NoError(t, f.protocols.Save(ctx, raw))

	_, err = f.service.Compliance(ctx, raw.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeProtocolNotProcessed, errors.GetCode(err))
}

func TestAnalysisService_ComplianceUnknownProtocol(t *testing.T) {
	f := newAnalysisFixture(t, nil)

	_, err := f.service.Compliance(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAnalysisService_ComprehensiveWithoutProvider(t *testing.T) {
	f := newAnalysisFixture(t, nil)
	ctx := context.Background()

	result, err := f.service.Comprehensive(ctx, f.id)
	require.NoError(t, err)

	assert.Equal(t, "partial_complete", result.Status)
	assert.Equal(t, "rule_based_only", result.Provider)
	assert.Nil(t, result.AI)
	require.NotNil(t, result.Compliance)
	assert.Equal(t, result.Compliance.Score, result.OverallScore)
	assert.Equal(t, len(result.Compliance.FailedItems), result.RecommendationsCount)

	records, err := f.analyses.ListByProtocol(ctx, f.id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ptypes.AnalysisComprehensive, records[0].Type)
}

func TestAnalysisService_ComprehensiveWithProvider(t *testing.T) {
	client := &stubLLMClient{response: "[]"}
	f := newAnalysisFixture(t, client)

	result, err := f.service.Comprehensive(context.Background(), f.id)
	require.NoError(t, err)

	assert.Equal(t, "complete", result.Status)
	assert.Equal(t, "scripted", result.Provider)
	require.NotNil(t, result.AI)
	assert.Equal(t, "[]", result.AI.ExecutiveSummary)
	assert.Greater(t, client.calls, 0)
}

func TestAnalysisService_SuggestionsFallback(t *testing.T) {
	f := newAnalysisFixture(t, nil)
	ctx := context.Background()

	suggestions, err := f.service.Suggestions(ctx, f.id)
	require.NoError(t, err)

	require.NotEmpty(t, suggestions)
	assert.Equal(t, 0.1, suggestions[0].Confidence)

	records, err := f.analyses.ListByProtocol(ctx, f.id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ptypes.AnalysisSuggestions, records[0].Type)
}

func TestAnalysisService_ClarityAndConsistency(t *testing.T) {
	f := newAnalysisFixture(t, nil)
	ctx := context.Background()

	clarity, err := f.service.Clarity(ctx, f.id)
	require.NoError(t, err)
	assert.NotEmpty(t, clarity)

	consistency, err := f.service.Consistency(ctx, f.id)
	require.NoError(t, err)
	assert.Empty(t, consistency)

	records, err := f.analyses.ListByProtocol(ctx, f.id)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Clarity and consistency runs do not flip the protocol to analyzed.
	p, err := f.protocols.FindByID(ctx, f.id)
	require.NoError(t, err)
	assert.Equal(t, ptypes.StatusProcessed, p.Status)
}

func TestAnalysisService_ExecutiveSummary(t *testing.T) {
	f := newAnalysisFixture(t, nil)

	summary, err := f.service.ExecutiveSummary(context.Background(), f.id)
	require.NoError(t, err)

	assert.Equal(t, f.id, summary.ProtocolID)
	assert.NotEmpty(t, summary.ExecutiveSummary)
	assert.Equal(t, "fallback", summary.Provider)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestAnalysisService_History(t *testing.T) {
	f := newAnalysisFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.Compliance(ctx, f.id)
	require.NoError(t, err)
	_, err = f.service.Suggestions(ctx, f.id)
	require.NoError(t, err)

	history, err := f.service.History(ctx, f.id)
	require.NoError(t, err)

	assert.Equal(t, f.id, history.ProtocolID)
	assert.Equal(t, 2, history.TotalAnalyses)
	require.Len(t, history.History, 2)
	for _, record := range history.History {
		assert.Equal(t, f.id, record.ProtocolID)
	}
}

func TestAnalysisService_HistoryUnknownProtocol(t *testing.T) {
	f := newAnalysisFixture(t, nil)

	_, err := f.service.History(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAnalysisService_ScoreComputesOnFirstCall(t *testing.T) {
	f := newAnalysisFixture(t, nil)
	ctx := context.Background()

	score, err := f.service.Score(ctx, f.id)
	require.NoError(t, err)

	assert.Equal(t, f.id, score.ProtocolID)
	assert.Greater(t, score.OverallScore, 0.0)
	assert.Equal(t, 7, score.TotalItems)
	assert.Equal(t, 1, score.AnalysisCount)
	assert.False(t, score.LastAnalyzed.IsZero())

	// A second call serves the stored result without recording a new run.
	again, err := f.service.Score(ctx, f.id)
	require.NoError(t, err)
	assert.Equal(t, score.OverallScore, again.OverallScore)
	assert.Equal(t, 1, again.AnalysisCount)
}

func TestAnalysisService_ScoreUnknownProtocol(t *testing.T) {
	f := newAnalysisFixture(t, nil)

	_, err := f.service.Score(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
