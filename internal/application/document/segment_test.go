package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitle_KeywordLine(t *testing.T) {
	content := "Version 2.1\nA Randomised Controlled Trial of Aspirin\nSponsor: Example Org"
	assert.Equal(t, "A Randomised Controlled Trial of Aspirin", ExtractTitle(content))
}

func TestExtractTitle_FirstSubstantialLine(t *testing.T) {
	content := "Comparing Two Interventions for Hypertension\nMore text follows"
	assert.Equal(t, "Comparing Two Interventions for Hypertension", ExtractTitle(content))
}

func TestExtractTitle_KeywordBeatsPosition(t *testing.T) {
	// The keyword line wins even when an earlier short line exists.
	content := "Draft\nEfficacy study of drug X\nbody"
	assert.Equal(t, "Efficacy study of drug X", ExtractTitle(content))
}

func TestExtractTitle_FallbackTruncates(t *testing.T) {
	long := strings.Repeat("x", 250)
	title := ExtractTitle(long + "\n")
	assert.Equal(t, strings.Repeat("x", 100)+"...", title)
}

func TestExtractTitle_Empty(t *testing.T) {
	assert.Equal(t, "Untitled Protocol", ExtractTitle("\n\n  \n"))
}

func TestSegmentSections_NamedHeadings(t *testing.T) {
	content := strings.Join([]string{
		"Some preamble text before any heading.",
		"METHODS",
		"We will randomise 200 participants.",
		"Statistical Analysis",
		"Analysis follows intention to treat.",
	}, "\n")

	sections := SegmentSections(content)
	require.Len(t, sections, 3)
	assert.Equal(t, "Some preamble text before any heading.", sections["Introduction"])
	assert.Equal(t, "We will randomise 200 participants.", sections["Methods"])
	assert.Equal(t, "Analysis follows intention to treat.", sections["Statistical Analysis"])
}

func TestSegmentSections_NumberedHeadings(t *testing.T) {
	content := strings.Join([]string{
		"1. Background",
		"Rationale for the study.",
		"2 Outcomes and Endpoints",
		"Primary outcome is blood pressure.",
	}, "\n")

	sections := SegmentSections(content)
	require.Len(t, sections, 2)
	assert.Equal(t, "Rationale for the study.", sections["Background"])
	assert.Equal(t, "Primary outcome is blood pressure.", sections["Outcomes and Endpoints"])
}

func TestSegmentSections_DropsEmptySections(t *testing.T) {
	content := "Methods\n\n\nEthics\nApproved by the board."

	sections := SegmentSections(content)
	require.Len(t, sections, 1)
	assert.Equal(t, "Approved by the board.", sections["Ethics"])
}

func TestSegmentSections_HeadingMustStandAlone(t *testing.T) {
	content := "The methods section describes procedures."

	sections := SegmentSections(content)
	require.Len(t, sections, 1)
	_, ok := sections["Introduction"]
	assert.True(t, ok)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Study Design", titleCase("STUDY DESIGN"))
	assert.Equal(t, "Ethical Considerations", titleCase("ethical considerations"))
}
