package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkTestProtocol = `A Randomized Controlled Trial of Exercise Therapy

Introduction

Chronic low back pain is a leading cause of disability. This randomized
controlled trial evaluates a structured exercise program against usual care.

Methods

Participants will be randomized using a computer-generated random allocation
sequence with allocation concealment by sealed opaque envelopes. Outcome
assessors will be blinded to group assignment. The primary outcome is pain
intensity at 12 weeks. The sample size calculation assumes a minimal
clinically important difference of 1.5 points. Eligibility criteria include
adults aged 18 to 65 with pain lasting more than 12 weeks. Statistical
methods include mixed models for repeated measures. The trial protocol was
approved by the institutional ethics committee and informed consent will be
obtained from all participants. Adverse events will be recorded and a data
monitoring committee will review safety data.
`

func writeCheckFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCommand_ReportsScore(t *testing.T) {
	path := writeCheckFile(t, "trial.txt", checkTestProtocol)

	out, _, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "trial.txt")
	assert.Contains(t, out, "% compliant")
	assert.Contains(t, out, "CONSORT")
	assert.Contains(t, out, "SPIRIT")
}

func TestCheckCommand_JSONOutput(t *testing.T) {
	path := writeCheckFile(t, "trial.txt", checkTestProtocol)

	out, _, err := execute(t, "check", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_items"`)
	assert.Contains(t, out, `"consort_details"`)
}

func TestCheckCommand_FailUnder(t *testing.T) {
	path := writeCheckFile(t, "thin.txt", "A Trial\n\nShort document with no methodology detail.\n")

	_, errOut, err := execute(t, "check", path, "--fail-under", "99.9")
	require.Error(t, err)
	assert.Contains(t, errOut, "below the required")
}

func TestCheckCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, "check", filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestCheckCommand_UnsupportedExtension(t *testing.T) {
	path := writeCheckFile(t, "trial.pdf", "binary-ish")

	_, _, err := execute(t, "check", path)
	assert.Error(t, err)
}
