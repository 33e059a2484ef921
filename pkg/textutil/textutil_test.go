package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "a b c", Clean("  a\t b\n\nc  "))
	assert.Equal(t, "randomized trial, phase 2.", Clean("randomized  trial, phase 2."))
}

func TestExtractKeywords(t *testing.T) {
	kws := ExtractKeywords("This randomized trial will assess blood pressure with care")
	assert.Contains(t, kws, "randomized")
	assert.Contains(t, kws, "trial")
	assert.Contains(t, kws, "blood")
	assert.NotContains(t, kws, "this", "stop word filtered")
	assert.NotContains(t, kws, "with", "stop word filtered")
	assert.NotContains(t, kws, "will", "stop word filtered")

	assert.Empty(t, ExtractKeywords(""))
}

func TestExtractKeywords_Unique(t *testing.T) {
	kws := ExtractKeywords("trial trial trial")
	assert.Equal(t, []string{"trial"}, kws)
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "512.0 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 MB", FormatFileSize(1536*1024))
}

func TestValidFileType(t *testing.T) {
	allowed := []string{".pdf", ".docx", ".txt"}
	assert.True(t, ValidFileType("protocol.txt", allowed))
	assert.True(t, ValidFileType("Protocol.PDF", allowed))
	assert.False(t, ValidFileType("protocol.exe", allowed))
	assert.False(t, ValidFileType("", allowed))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefgh", 5))
	assert.Equal(t, "", Truncate("", 5))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// Counts characters, not bytes, and never splits a multibyte rune.
	assert.Equal(t, "héllo", Truncate("héllo", 5))
	assert.Equal(t, "hé...", Truncate("héllo world", 2))

	got := Truncate("αβγδε", 3)
	assert.Equal(t, "αβγ...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestCompletenessScore(t *testing.T) {
	assert.Equal(t, 0.0, CompletenessScore(0, 0))
	assert.Equal(t, 100.0, CompletenessScore(4, 4))
	assert.Equal(t, 0.0, CompletenessScore(4, 0))
	assert.Equal(t, 33.3, CompletenessScore(3, 1))
	assert.Equal(t, 66.7, CompletenessScore(3, 2))
}

func TestNormalizeSectionName(t *testing.T) {
	assert.Equal(t, "outcomes", NormalizeSectionName("3. Outcomes (primary)"))
	assert.Equal(t, "methods", NormalizeSectionName("  METHODS  "))
	assert.Equal(t, "statistical analysis", NormalizeSectionName("7. Statistical   Analysis"))
	assert.Equal(t, "", NormalizeSectionName(""))
}

func TestExtractSentences(t *testing.T) {
	sentences := ExtractSentences("This is the first sentence. Short. And here is another one!")
	assert.Len(t, sentences, 2)
	assert.Equal(t, "This is the first sentence", sentences[0])
	assert.Equal(t, "And here is another one", sentences[1])

	assert.Empty(t, ExtractSentences(""))
}

func TestFindSimilar(t *testing.T) {
	haystack := "Participants will be randomly assigned to treatment groups. " +
		"The primary outcome is blood pressure reduction at 12 weeks."

	match := FindSimilar("primary outcome blood pressure", haystack, 0.3)
	assert.True(t, match.Found)
	assert.Greater(t, match.Similarity, 0.3)
	assert.Contains(t, match.Text, "primary outcome")

	// Unrelated needle stays below threshold.
	miss := FindSimilar("quantum chromodynamics lattice", haystack, 0.3)
	assert.False(t, miss.Found)
	assert.Zero(t, miss.Similarity)

	assert.False(t, FindSimilar("", haystack, 0.3).Found)
	assert.False(t, FindSimilar("needle", "", 0.3).Found)
}
