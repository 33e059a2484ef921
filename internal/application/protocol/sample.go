package protocol

import (
	"context"

	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// sampleContent is a small but well-formed trial protocol used to seed the
// system for demos and smoke tests. It deliberately covers the checklist
// topics (randomisation, blinding, eligibility, outcomes, sample size,
// consent) so a compliance run on it produces a meaningful report.
const sampleContent = `A Sample Randomized Controlled Trial Protocol

Abstract
This randomised controlled trial protocol demonstrates the expected structure
and content of a clinical trial submission. Participants will be allocated to
treatment or placebo using blinded assignment.

Introduction
Background and rationale: this sample protocol demonstrates the structure and
content of a clinical trial protocol for testing the analysis pipeline. The
trial registry identifier and scientific background are described here.

Objectives
Primary objective: to demonstrate protocol structure.
Secondary objective: to exercise the automated analysis system.

Study Design
This is a randomized, double-blind, placebo-controlled, parallel-group trial
with 1:1 allocation. The randomisation sequence is computer generated and
masking of participants and assessors is maintained throughout.

Participants
Inclusion criteria: adults over 18 years able to give informed consent.
Exclusion criteria: pregnant women and children. Eligibility is assessed at
the screening visit.

Interventions
Treatment group: active medication administered daily.
Control group: matched placebo.

Outcomes
Primary outcome: response rate at 12 weeks.
Secondary outcomes: safety measures and adverse events recorded throughout
the intervention period.

Statistical Analysis
Sample size: 100 participants per group, giving 80% power to detect the
expected difference in the primary endpoint. The primary analysis uses a
chi-square test; statistical methods for secondary outcomes are descriptive.

Ethics
The protocol has institutional review board approval. Written informed
consent is obtained from every participant before enrolment.
`

// CreateSample seeds one sample protocol through the regular upload
// pipeline, so it is segmented and scored exactly like a real document.
func (s *Service) CreateSample(ctx context.Context) (*ptypes.Protocol, error) {
	return s.Upload(ctx, UploadInput{
		Filename: "sample_protocol.txt",
		Data:     []byte(sampleContent),
	})
}
