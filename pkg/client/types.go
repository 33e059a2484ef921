package client

import "time"

// Protocol is a protocol document as returned by the API.
type Protocol struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Filename  string            `json:"filename"`
	FileType  string            `json:"file_type"`
	FileSize  int64             `json:"file_size"`
	WordCount int               `json:"word_count"`
	Status    string            `json:"status"`
	Sections  map[string]string `json:"sections,omitempty"`
	Content   string            `json:"content,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ProtocolList is a paginated protocol listing.
type ProtocolList struct {
	Protocols []Protocol `json:"protocols"`
	Total     int64      `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

// ItemCheck is the evaluation of a single checklist item.
type ItemCheck struct {
	ItemID      string  `json:"item_id"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Confidence  float64 `json:"confidence"`
	FoundText   string  `json:"found_text,omitempty"`
	Issue       string  `json:"issue,omitempty"`
}

// FailedItem is a checklist item the protocol does not cover.
type FailedItem struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description"`
	Section     string `json:"section"`
	Guideline   string `json:"guideline"`
}

// WarningItem is a checklist item with partial coverage.
type WarningItem struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description"`
	Issue       string `json:"issue"`
	Guideline   string `json:"guideline"`
}

// GuidelineReport is a per-guideline compliance breakdown.
type GuidelineReport struct {
	Guideline   string        `json:"guideline"`
	Score       float64       `json:"score"`
	Items       []ItemCheck   `json:"items"`
	FailedItems []FailedItem  `json:"failed_items"`
	Warnings    []WarningItem `json:"warnings"`
}

// ComplianceReport is a full rule-based compliance evaluation.
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

// Suggestion is an AI-generated remediation for a missing checklist item.
type Suggestion struct {
	ItemID                string   `json:"item_id"`
	Type                  string   `json:"type"`
	Section               string   `json:"section"`
	Issue                 string   `json:"issue"`
	Explanation           string   `json:"explanation,omitempty"`
	SuggestedText         string   `json:"suggested_text"`
	PlacementGuidance     string   `json:"placement_guidance,omitempty"`
	Confidence            float64  `json:"confidence"`
	Reasoning             string   `json:"reasoning,omitempty"`
	AlternativeApproaches []string `json:"alternative_approaches,omitempty"`
	RegulatoryContext     string   `json:"regulatory_context,omitempty"`
	Guideline             string   `json:"guideline"`
}

// ClarityIssue is a language clarity problem found in the protocol text.
type ClarityIssue struct {
	IssueType  string `json:"issue_type"`
	Section    string `json:"section"`
	Problem    string `json:"problem"`
	Impact     string `json:"impact"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
}

// ConsistencyIssue is a cross-section contradiction found in the protocol.
type ConsistencyIssue struct {
	Issue            string   `json:"consistency_issue"`
	AffectedSections []string `json:"affected_sections"`
	Severity         string   `json:"severity"`
	Recommendation   string   `json:"recommendation"`
}

// ComprehensiveAnalysis is the AI portion of a comprehensive run.
type ComprehensiveAnalysis struct {
	MissingItemsAnalysis []Suggestion       `json:"missing_items_analysis"`
	ClarityAnalysis      []ClarityIssue     `json:"clarity_analysis"`
	ConsistencyAnalysis  []ConsistencyIssue `json:"consistency_analysis"`
	ExecutiveSummary     string             `json:"executive_summary"`
	Provider             string             `json:"provider"`
	AnalyzedAt           time.Time          `json:"analyzed_at"`
}

// ComprehensiveResult combines rule-based and AI analysis.
type ComprehensiveResult struct {
	ProtocolID           string                 `json:"protocol_id"`
	Compliance           *ComplianceReport      `json:"compliance_analysis"`
	AI                   *ComprehensiveAnalysis `json:"ai_analysis,omitempty"`
	OverallScore         float64                `json:"overall_score"`
	Provider             string                 `json:"analysis_provider"`
	RecommendationsCount int                    `json:"recommendations_count"`
	Status               string                 `json:"status"`
	AnalyzedAt           time.Time              `json:"analyzed_at"`
}

// SuggestionsResult wraps AI suggestions for missing items.
type SuggestionsResult struct {
	ProtocolID  string       `json:"protocol_id"`
	Suggestions []Suggestion `json:"suggestions"`
	Count       int          `json:"count"`
}

// ClarityResult wraps clarity issues found in a protocol.
type ClarityResult struct {
	ProtocolID  string         `json:"protocol_id"`
	IssuesFound int            `json:"issues_found"`
	Issues      []ClarityIssue `json:"issues"`
}

// ConsistencyResult wraps consistency issues found in a protocol.
type ConsistencyResult struct {
	ProtocolID  string             `json:"protocol_id"`
	IssuesFound int                `json:"issues_found"`
	Issues      []ConsistencyIssue `json:"issues"`
}

// SummaryResult is an executive summary of a protocol's compliance posture.
type SummaryResult struct {
	ProtocolID       string    `json:"protocol_id"`
	ExecutiveSummary string    `json:"executive_summary"`
	Provider         string    `json:"provider"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// AnalysisRecord is one stored analysis run.
type AnalysisRecord struct {
	ID         string                 `json:"id"`
	ProtocolID string                 `json:"protocol_id"`
	Type       string                 `json:"type"`
	Score      float64                `json:"score"`
	Result     map[string]interface{} `json:"result,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// HistoryResult lists past analysis runs for a protocol.
type HistoryResult struct {
	ProtocolID    string           `json:"protocol_id"`
	History       []AnalysisRecord `json:"analysis_history"`
	TotalAnalyses int              `json:"total_analyses"`
}

// ScoreResult is the latest compliance score summary for a protocol.
type ScoreResult struct {
	ProtocolID    string    `json:"protocol_id"`
	OverallScore  float64   `json:"overall_score"`
	ConsortScore  float64   `json:"consort_score"`
	SpiritScore   float64   `json:"spirit_score"`
	TotalItems    int       `json:"total_items"`
	PassedItems   int       `json:"passed_items"`
	LastAnalyzed  time.Time `json:"last_analyzed"`
	AnalysisCount int       `json:"analysis_count"`
}

// ChecklistItem is a single reporting guideline requirement.
type ChecklistItem struct {
	ID          string `json:"id"`
	Section     string `json:"section"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// Checklist is a reporting guideline checklist.
type Checklist struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Items   []ChecklistItem `json:"items"`
}

// ChecklistList wraps the available guideline checklists.
type ChecklistList struct {
	Guidelines []Checklist `json:"guidelines"`
	Count      int         `json:"count"`
}
