package compliance

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/protoscribe/internal/domain/guideline"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// fullyCompliantContent carries every keyword the default CONSORT and SPIRIT
// items search for.
const fullyCompliantContent = `Identification as a randomised randomized trial: randomisation in the title.
Structured summary of trial design, methods, results and conclusions.
Scientific background and explanation of rationale.
Specific objectives and hypotheses.
Descriptive title identifying the study design, population and interventions.
Trial identifier and registry name recorded.
Protocol version and date.`

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	return NewChecker(guideline.NewRegistry("", nil), nil)
}

func TestChecker_FullCompliance(t *testing.T) {
	c := newTestChecker(t)

	report, err := c.Check(context.Background(), fullyCompliantContent, nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.Score)
	assert.Equal(t, 100.0, report.ConsortScore)
	assert.Equal(t, 100.0, report.SpiritScore)
	assert.Equal(t, 7, report.TotalItems)
	assert.Equal(t, 7, report.PassedItems)
	assert.Empty(t, report.FailedItems)
	assert.Empty(t, report.Warnings)
	assert.False(t, report.AnalyzedAt.IsZero())
}

func TestChecker_NothingFound(t *testing.T) {
	c := newTestChecker(t)

	report, err := c.Check(context.Background(), "lorem ipsum dolor sit amet", nil)
	require.NoError(t, err)

	assert.Zero(t, report.Score)
	assert.Zero(t, report.PassedItems)
	assert.Equal(t, 7, report.TotalItems)
	assert.Len(t, report.FailedItems, 7)
	for _, item := range report.ConsortDetails.Items {
		assert.Equal(t, ptypes.CheckFail, item.Status)
		assert.Equal(t, failIssue, item.Issue)
	}
}

func TestChecker_DetailsCarryGuidelineNames(t *testing.T) {
	c := newTestChecker(t)

	report, err := c.Check(context.Background(), "lorem ipsum", nil)
	require.NoError(t, err)

	assert.Equal(t, ptypes.GuidelineCONSORT, report.ConsortDetails.Guideline)
	assert.Equal(t, ptypes.GuidelineSPIRIT, report.SpiritDetails.Guideline)
	for _, failed := range report.FailedItems[:4] {
		assert.Equal(t, ptypes.GuidelineCONSORT, failed.Guideline)
	}
	for _, failed := range report.FailedItems[4:] {
		assert.Equal(t, ptypes.GuidelineSPIRIT, failed.Guideline)
	}
}

func TestCheckItem_SectionMatchSkipsDamping(t *testing.T) {
	item := guideline.ChecklistItem{
		ID:          "2b",
		Section:     "Introduction",
		Description: "Specific objectives or hypotheses",
	}
	sections := map[string]string{
		"Background": "The specific objectives and hypotheses are stated here.",
	}

	// Content is empty, so a pass can only come from the bucket-matched
	// Background section.
	check := checkItem("", sections, item)
	assert.Equal(t, ptypes.CheckPass, check.Status)
	assert.Equal(t, 1.0, check.Confidence)
	assert.Empty(t, check.Issue)
	assert.NotEmpty(t, check.FoundText)
}

func TestCheckItem_GeneralSearchIsDamped(t *testing.T) {
	item := guideline.ChecklistItem{
		ID:          "3",
		Section:     "Administrative information",
		Description: "Protocol version and date",
	}
	sections := map[string]string{
		"Methods": "nothing relevant in here",
	}
	content := "Protocol version 2.0 dated 2024-01-15"

	check := checkItem(content, sections, item)
	assert.InDelta(t, 0.7, check.Confidence, 1e-9)
	assert.Equal(t, ptypes.CheckWarning, check.Status)
	assert.Equal(t, warningIssue, check.Issue)
}

func TestCheckItem_FoundTextTruncated(t *testing.T) {
	item := guideline.ChecklistItem{
		ID:          "3",
		Section:     "Administrative information",
		Description: "Protocol version and date",
	}
	pad := strings.Repeat("x", 150)
	content := pad + " protocol version date " + pad

	check := checkItem(content, map[string]string{"content": content}, item)
	assert.True(t, strings.HasSuffix(check.FoundText, "..."))
	assert.Len(t, check.FoundText, 203)
}

func TestCheckGuideline_PartialScoreRounded(t *testing.T) {
	c := newTestChecker(t)
	checklist := &guideline.Checklist{
		Name: ptypes.GuidelineCONSORT,
		Items: []guideline.ChecklistItem{
			{ID: "a", Description: "Protocol version and date"},
			{ID: "b", Description: "Trial identifier and registry name"},
			{ID: "c", Description: "Specific objectives or hypotheses"},
		},
	}
	content := "protocol version date"

	report := c.checkGuideline(context.Background(), content, map[string]string{"content": content}, checklist)
	assert.Equal(t, 33.3, report.Score)
	assert.Len(t, report.FailedItems, 2)
}
