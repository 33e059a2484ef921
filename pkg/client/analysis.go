package client

import (
	"context"
	"fmt"
	"net/url"
)

// AnalysisClient runs and retrieves protocol analyses.
type AnalysisClient struct {
	client *Client
}

func (ac *AnalysisClient) path(id, op string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("protoscribe: protocol ID is required")
	}
	return "/api/v1/analysis/" + url.PathEscape(id) + "/" + op, nil
}

// Compliance runs a rule-based CONSORT/SPIRIT compliance check.
func (ac *AnalysisClient) Compliance(ctx context.Context, protocolID string) (*ComplianceReport, error) {
	p, err := ac.path(protocolID, "compliance")
	if err != nil {
		return nil, err
	}
	var report ComplianceReport
	if err := ac.client.post(ctx, p, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Comprehensive runs the combined rule-based and AI analysis.
func (ac *AnalysisClient) Comprehensive(ctx context.Context, protocolID string) (*ComprehensiveResult, error) {
	p, err := ac.path(protocolID, "comprehensive")
	if err != nil {
		return nil, err
	}
	var result ComprehensiveResult
	if err := ac.client.post(ctx, p, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Suggestions generates remediation text for missing checklist items.
func (ac *AnalysisClient) Suggestions(ctx context.Context, protocolID string) (*SuggestionsResult, error) {
	p, err := ac.path(protocolID, "suggestions")
	if err != nil {
		return nil, err
	}
	var result SuggestionsResult
	if err := ac.client.post(ctx, p, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ClarityCheck analyzes the protocol text for ambiguous language.
func (ac *AnalysisClient) ClarityCheck(ctx context.Context, protocolID string) (*ClarityResult, error) {
	p, err := ac.path(protocolID, "clarity-check")
	if err != nil {
		return nil, err
	}
	var result ClarityResult
	if err := ac.client.post(ctx, p, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConsistencyCheck analyzes the protocol for cross-section contradictions.
func (ac *AnalysisClient) ConsistencyCheck(ctx context.Context, protocolID string) (*ConsistencyResult, error) {
	p, err := ac.path(protocolID, "consistency-check")
	if err != nil {
		return nil, err
	}
	var result ConsistencyResult
	if err := ac.client.post(ctx, p, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecutiveSummary fetches a short narrative compliance summary.
func (ac *AnalysisClient) ExecutiveSummary(ctx context.Context, protocolID string) (*SummaryResult, error) {
	p, err := ac.path(protocolID, "executive-summary")
	if err != nil {
		return nil, err
	}
	var result SummaryResult
	if err := ac.client.get(ctx, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History lists past analysis runs for a protocol.
func (ac *AnalysisClient) History(ctx context.Context, protocolID string) (*HistoryResult, error) {
	p, err := ac.path(protocolID, "analysis-history")
	if err != nil {
		return nil, err
	}
	var result HistoryResult
	if err := ac.client.get(ctx, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Score fetches the latest compliance score, computing it if needed.
func (ac *AnalysisClient) Score(ctx context.Context, protocolID string) (*ScoreResult, error) {
	p, err := ac.path(protocolID, "score")
	if err != nil {
		return nil, err
	}
	var result ScoreResult
	if err := ac.client.get(ctx, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
