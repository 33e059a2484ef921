// Package protocol defines the public DTO types for protocols, compliance
// reports, and LLM analysis results.  These types form the wire contract of
// the HTTP API and are shared by the server handlers and the Go client.
package protocol

import (
	"time"

	"github.com/turtacn/protoscribe/pkg/types/common"
)

// ProtocolID is a string alias for a protocol identifier.
type ProtocolID string

// ProtocolStatus represents the lifecycle stage of an uploaded protocol.
type ProtocolStatus string

const (
	StatusUploaded  ProtocolStatus = "uploaded"
	StatusProcessed ProtocolStatus = "processed"
	StatusAnalyzed  ProtocolStatus = "analyzed"
	StatusFailed    ProtocolStatus = "failed"
)

// IsValid checks if the ProtocolStatus is valid.
func (s ProtocolStatus) IsValid() bool {
	switch s {
	case StatusUploaded, StatusProcessed, StatusAnalyzed, StatusFailed:
		return true
	default:
		return false
	}
}

// GuidelineName identifies a reporting guideline.
type GuidelineName string

const (
	GuidelineCONSORT GuidelineName = "CONSORT"
	GuidelineSPIRIT  GuidelineName = "SPIRIT"
)

// CheckStatus is the outcome of a single checklist item evaluation.
type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckWarning CheckStatus = "warning"
	CheckFail    CheckStatus = "fail"
)

// Protocol is the API representation of an uploaded protocol document.
type Protocol struct {
	ID        ProtocolID        `json:"id"`
	Title     string            `json:"title"`
	Filename  string            `json:"filename"`
	FileType  string            `json:"file_type"`
	FileSize  int64             `json:"file_size"`
	WordCount int               `json:"word_count"`
	Status    ProtocolStatus    `json:"status"`
	Sections  map[string]string `json:"sections,omitempty"`
	Content   string            `json:"content,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ItemCheck is the evaluation result for a single checklist item.
type ItemCheck struct {
	ItemID      string      `json:"item_id"`
	Description string      `json:"description"`
	Status      CheckStatus `json:"status"`
	Confidence  float64     `json:"confidence"`
	FoundText   string      `json:"found_text,omitempty"`
	Issue       string      `json:"issue,omitempty"`
}

// FailedItem annotates a failed checklist item with its guideline.
type FailedItem struct {
	ItemID      string        `json:"item_id"`
	Description string        `json:"description"`
	Section     string        `json:"section"`
	Guideline   GuidelineName `json:"guideline"`
}

// WarningItem annotates a borderline checklist item with its guideline.
type WarningItem struct {
	ItemID      string        `json:"item_id"`
	Description string        `json:"description"`
	Issue       string        `json:"issue"`
	Guideline   GuidelineName `json:"guideline"`
}

// GuidelineReport is the compliance result for one guideline.
type GuidelineReport struct {
	Guideline   GuidelineName `json:"guideline"`
	Score       float64       `json:"score"`
	Items       []ItemCheck   `json:"items"`
	FailedItems []FailedItem  `json:"failed_items"`
	Warnings    []WarningItem `json:"warnings"`
}

// ComplianceReport is the combined CONSORT/SPIRIT compliance result.
type ComplianceReport struct {
	Score          float64         `json:"score"`
	ConsortScore   float64         `json:"consort_score"`
	SpiritScore    float64         `json:"spirit_score"`
	TotalItems     int             `json:"total_items"`
	PassedItems    int             `json:"passed_items"`
	FailedItems    []FailedItem    `json:"failed_items"`
	Warnings       []WarningItem   `json:"warnings"`
	ConsortDetails GuidelineReport `json:"consort_details"`
	SpiritDetails  GuidelineReport `json:"spirit_details"`
	AnalyzedAt     time.Time       `json:"analyzed_at"`
}

// Suggestion is an LLM-generated improvement recommendation.
type Suggestion struct {
	ItemID                string        `json:"item_id"`
	Type                  string        `json:"type"`
	Section               string        `json:"section"`
	Issue                 string        `json:"issue"`
	Explanation           string        `json:"explanation,omitempty"`
	SuggestedText         string        `json:"suggested_text"`
	PlacementGuidance     string        `json:"placement_guidance,omitempty"`
	Confidence            float64       `json:"confidence"`
	Reasoning             string        `json:"reasoning,omitempty"`
	AlternativeApproaches []string      `json:"alternative_approaches,omitempty"`
	RegulatoryContext     string        `json:"regulatory_context,omitempty"`
	Guideline             GuidelineName `json:"guideline"`
}

// ClarityIssue is a clarity or completeness finding.
type ClarityIssue struct {
	IssueType  string `json:"issue_type"`
	Section    string `json:"section"`
	Problem    string `json:"problem"`
	Impact     string `json:"impact"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
}

// ConsistencyIssue is an internal-consistency finding.
type ConsistencyIssue struct {
	Issue            string   `json:"consistency_issue"`
	AffectedSections []string `json:"affected_sections"`
	Severity         string   `json:"severity"`
	Recommendation   string   `json:"recommendation"`
}

// ComprehensiveAnalysis bundles the LLM analysis results.
type ComprehensiveAnalysis struct {
	MissingItemsAnalysis []Suggestion       `json:"missing_items_analysis"`
	ClarityAnalysis      []ClarityIssue     `json:"clarity_analysis"`
	ConsistencyAnalysis  []ConsistencyIssue `json:"consistency_analysis"`
	ExecutiveSummary     string             `json:"executive_summary"`
	Provider             string             `json:"provider"`
	AnalyzedAt           time.Time          `json:"analyzed_at"`
}

// AnalysisType identifies what kind of analysis a stored record holds.
type AnalysisType string

const (
	AnalysisCompliance    AnalysisType = "compliance"
	AnalysisComprehensive AnalysisType = "comprehensive"
	AnalysisSuggestions   AnalysisType = "suggestions"
	AnalysisClarity       AnalysisType = "clarity"
	AnalysisConsistency   AnalysisType = "consistency"
)

// AnalysisRecord is a stored analysis run for a protocol.
type AnalysisRecord struct {
	ID         common.ID       `json:"id"`
	ProtocolID ProtocolID      `json:"protocol_id"`
	Type       AnalysisType    `json:"type"`
	Score      float64         `json:"score"`
	Result     common.Metadata `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
