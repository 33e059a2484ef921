package protocol

import (
	"context"
	"encoding/json"
	"time"

	"github.com/turtacn/protoscribe/internal/application/compliance"
	domainProtocol "github.com/turtacn/protoscribe/internal/domain/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/database/redis"
	"github.com/turtacn/protoscribe/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/protoscribe/internal/intelligence/protocol_gpt"
	"github.com/turtacn/protoscribe/pkg/errors"
	"github.com/turtacn/protoscribe/pkg/types/common"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// ComprehensiveResult combines the rule-based compliance report with the
// LLM analysis. When no LLM provider is configured the AI part is nil and
// Status reports a partial result.
type ComprehensiveResult struct {
	ProtocolID           ptypes.ProtocolID             `json:"protocol_id"`
	Compliance           *ptypes.ComplianceReport      `json:"compliance_analysis"`
	AI                   *ptypes.ComprehensiveAnalysis `json:"ai_analysis,omitempty"`
	OverallScore         float64                       `json:"overall_score"`
	Provider             string                        `json:"analysis_provider"`
	RecommendationsCount int                           `json:"recommendations_count"`
	Status               string                        `json:"status"`
	AnalyzedAt           time.Time                     `json:"analyzed_at"`
}

// SummaryResult is the executive-summary response.
type SummaryResult struct {
	ProtocolID       ptypes.ProtocolID `json:"protocol_id"`
	ExecutiveSummary string            `json:"executive_summary"`
	Provider         string            `json:"provider"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// HistoryResult lists all stored analyses for a protocol, newest first.
type HistoryResult struct {
	ProtocolID    ptypes.ProtocolID       `json:"protocol_id"`
	History       []ptypes.AnalysisRecord `json:"analysis_history"`
	TotalAnalyses int                     `json:"total_analyses"`
}

// ScoreResult is the detailed completeness score for a protocol, derived
// from its most recent compliance analysis.
type ScoreResult struct {
	ProtocolID    ptypes.ProtocolID `json:"protocol_id"`
	OverallScore  float64           `json:"overall_score"`
	ConsortScore  float64           `json:"consort_score"`
	SpiritScore   float64           `json:"spirit_score"`
	TotalItems    int               `json:"total_items"`
	PassedItems   int               `json:"passed_items"`
	LastAnalyzed  time.Time         `json:"last_analyzed"`
	AnalysisCount int               `json:"analysis_count"`
}

// AnalysisService orchestrates compliance checking and LLM analysis and
// records every run for the history endpoint.
type AnalysisService struct {
	protocols domainProtocol.Repository
	analyses  domainProtocol.AnalysisRepository
	checker   *compliance.Checker
	analyzer  *protocol_gpt.Analyzer
	cache     redis.Cache
	publisher kafka.Publisher
	cacheTTL  time.Duration
	metrics   *prometheus.AppMetrics
	log       logging.Logger
}

// NewAnalysisService wires the analysis service. cache, publisher, and
// metrics may be nil.
func NewAnalysisService(
	protocols domainProtocol.Repository,
	analyses domainProtocol.AnalysisRepository,
	checker *compliance.Checker,
	analyzer *protocol_gpt.Analyzer,
	cache redis.Cache,
	publisher kafka.Publisher,
	metrics *prometheus.AppMetrics,
	log logging.Logger,
) *AnalysisService {
	if cache == nil {
		cache = redis.NewNopCache()
	}
	if publisher == nil {
		publisher = kafka.NewNopPublisher()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AnalysisService{
		protocols: protocols,
		analyses:  analyses,
		checker:   checker,
		analyzer:  analyzer,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  time.Hour,
		metrics:   metrics,
		log:       log.Named("analysis.service"),
	}
}

// Compliance runs the CONSORT/SPIRIT checker, stores the run, and returns
// the report. Re-running on unchanged content is served from the cache but
// still recorded in the history.
func (s *AnalysisService) Compliance(ctx context.Context, id ptypes.ProtocolID) (*ptypes.ComplianceReport, error) {
	p, err := s.fetchProcessed(ctx, id)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report, err := s.complianceReport(ctx, p)
	if err != nil {
		s.recordAnalysis(ptypes.AnalysisCompliance, started, false)
		return nil, err
	}

	s.recordRun(ctx, p, ptypes.AnalysisCompliance, report.Score, report)
	s.recordAnalysis(ptypes.AnalysisCompliance, started, true)
	if s.metrics != nil {
		s.metrics.RecordComplianceScores(
			map[string]float64{
				string(ptypes.GuidelineCONSORT): report.ConsortScore,
				string(ptypes.GuidelineSPIRIT):  report.SpiritScore,
			},
			map[string]int{
				string(ptypes.GuidelineCONSORT): len(report.ConsortDetails.FailedItems),
				string(ptypes.GuidelineSPIRIT):  len(report.SpiritDetails.FailedItems),
			},
		)
	}
	return report, nil
}

// Comprehensive runs the compliance check and, when an LLM provider is
// configured, the full AI analysis on top of it.
func (s *AnalysisService) Comprehensive(ctx context.Context, id ptypes.ProtocolID) (*ComprehensiveResult, error) {
	p, err := s.fetchProcessed(ctx, id)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report, err := s.complianceReport(ctx, p)
	if err != nil {
		s.recordAnalysis(ptypes.AnalysisComprehensive, started, false)
		return nil, err
	}

	result := &ComprehensiveResult{
		ProtocolID:   id,
		Compliance:   report,
		OverallScore: report.Score,
		AnalyzedAt:   time.Now().UTC(),
	}

	if !s.analyzer.Available() {
		result.Provider = "rule_based_only"
		result.RecommendationsCount = len(report.FailedItems)
		result.Status = "partial_complete"
	} else {
		ai := s.analyzer.Comprehensive(ctx, p.Content, p.Sections, report.FailedItems)
		result.AI = ai
		result.Provider = ai.Provider
		result.RecommendationsCount = len(ai.MissingItemsAnalysis) + len(ai.ClarityAnalysis)
		result.Status = "complete"
	}

	s.recordRun(ctx, p, ptypes.AnalysisComprehensive, report.Score, result)
	s.recordAnalysis(ptypes.AnalysisComprehensive, started, true)
	return result, nil
}

// Suggestions generates improvement suggestions for the items the
// compliance check found missing.
func (s *AnalysisService) Suggestions(ctx context.Context, id ptypes.ProtocolID) ([]ptypes.Suggestion, error) {
	p, err := s.fetchProcessed(ctx, id)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report, err := s.complianceReport(ctx, p)
	if err != nil {
		s.recordAnalysis(ptypes.AnalysisSuggestions, started, false)
		return nil, err
	}

	suggestions := s.analyzer.Suggestions(ctx, p.Content, report.FailedItems)
	s.recordRun(ctx, p, ptypes.AnalysisSuggestions, report.Score, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
	s.recordAnalysis(ptypes.AnalysisSuggestions, started, true)
	return suggestions, nil
}

// Clarity analyzes the protocol sections for clarity and completeness
// issues.
func (s *AnalysisService) Clarity(ctx context.Context, id ptypes.ProtocolID) ([]ptypes.ClarityIssue, error) {
	p, err := s.fetchProcessed(ctx, id)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	issues := s.analyzer.AnalyzeClarity(ctx, p.Sections)
	s.saveRecord(ctx, domainProtocol.NewAnalysis(p.ID, ptypes.AnalysisClarity, 0, resultMetadata(map[string]interface{}{
		"issues": issues,
		"count":  len(issues),
	})))
	s.recordAnalysis(ptypes.AnalysisClarity, started, true)
	return issues, nil
}

// Consistency analyzes the protocol for internal contradictions.
func (s *AnalysisService) Consistency(ctx context.Context, id ptypes.ProtocolID) ([]ptypes.ConsistencyIssue, error) {
	p, err := s.fetchProcessed(ctx, id)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	issues := s.analyzer.AnalyzeConsistency(ctx, p.Sections)
	s.saveRecord(ctx, domainProtocol.NewAnalysis(p.ID, ptypes.AnalysisConsistency, 0, resultMetadata(map[string]interface{}{
		"issues": issues,
		"count":  len(issues),
	})))
	s.recordAnalysis(ptypes.AnalysisConsistency, started, true)
	return issues, nil
}

// ExecutiveSummary produces a short narrative summary of the protocol.
func (s *AnalysisService) ExecutiveSummary(ctx context.Context, id ptypes.ProtocolID) (*SummaryResult, error) {
	p, err := s.fetchProcessed(ctx, id)
	if err != nil {
		return nil, err
	}

	return &SummaryResult{
		ProtocolID:       id,
		ExecutiveSummary: s.analyzer.ExecutiveSummary(ctx, p.Content),
		Provider:         s.analyzer.Provider(),
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

// History lists all stored analyses for a protocol, newest first.
func (s *AnalysisService) History(ctx context.Context, id ptypes.ProtocolID) (*HistoryResult, error) {
	if _, err := s.protocols.FindByID(ctx, id); err != nil {
		return nil, err
	}

	records, err := s.analyses.ListByProtocol(ctx, id)
	if err != nil {
		return nil, err
	}

	dtos := make([]ptypes.AnalysisRecord, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, record.ToDTO())
	}
	return &HistoryResult{
		ProtocolID:    id,
		History:       dtos,
		TotalAnalyses: len(dtos),
	}, nil
}

// Score returns the latest compliance score, running a fresh compliance
// check when the protocol has never been analyzed.
func (s *AnalysisService) Score(ctx context.Context, id ptypes.ProtocolID) (*ScoreResult, error) {
	latest, err := s.analyses.FindLatest(ctx, id, ptypes.AnalysisCompliance)
	if err != nil {
		if !errors.IsCode(err, errors.ErrCodeAnalysisNotFound) {
			return nil, err
		}
		if _, err := s.Compliance(ctx, id); err != nil {
			return nil, err
		}
		if latest, err = s.analyses.FindLatest(ctx, id, ptypes.AnalysisCompliance); err != nil {
			return nil, err
		}
	}

	var report ptypes.ComplianceReport
	if err := decodeMetadata(latest.Result, &report); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode stored compliance report")
	}

	all, err := s.analyses.ListByProtocol(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ScoreResult{
		ProtocolID:    id,
		OverallScore:  report.Score,
		ConsortScore:  report.ConsortScore,
		SpiritScore:   report.SpiritScore,
		TotalItems:    report.TotalItems,
		PassedItems:   report.PassedItems,
		LastAnalyzed:  latest.CreatedAt,
		AnalysisCount: len(all),
	}, nil
}

// fetchProcessed loads the protocol and verifies extraction has completed.
func (s *AnalysisService) fetchProcessed(ctx context.Context, id ptypes.ProtocolID) (*domainProtocol.Protocol, error) {
	p, err := s.protocols.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsProcessed() {
		return nil, errors.Newf(errors.ErrCodeProtocolNotProcessed,
			"protocol %s is not processed yet (status %s)", id, p.Status)
	}
	return p, nil
}

// complianceReport computes the report, serving unchanged content from the
// cache. Concurrent requests for the same protocol share one computation.
func (s *AnalysisService) complianceReport(ctx context.Context, p *domainProtocol.Protocol) (*ptypes.ComplianceReport, error) {
	key := "compliance:" + string(p.ID) + ":" + contentHash(p.Content)

	computed := false
	var report ptypes.ComplianceReport
	err := s.cache.GetOrSet(ctx, key, &report, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		computed = true
		return s.checker.Check(ctx, p.Content, p.Sections)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordCacheAccess("compliance", !computed)
	}
	return &report, nil
}

// recordRun stores an analysis record, marks the protocol analyzed, and
// publishes the analyzed event.
func (s *AnalysisService) recordRun(ctx context.Context, p *domainProtocol.Protocol, typ ptypes.AnalysisType, score float64, result interface{}) {
	s.saveRecord(ctx, domainProtocol.NewAnalysis(p.ID, typ, score, resultMetadata(result)))

	if err := p.MarkAnalyzed(); err == nil {
		if err := s.protocols.Save(ctx, p); err != nil {
			s.log.Warn("failed to persist analyzed status",
				logging.String("protocol_id", string(p.ID)), logging.Err(err))
		}
	}

	var report *ptypes.ComplianceReport
	if r, ok := result.(*ptypes.ComplianceReport); ok {
		report = r
	} else if cr, ok := result.(*ComprehensiveResult); ok {
		report = cr.Compliance
	}
	event := domainProtocol.NewProtocolAnalyzedEvent(p.ID, typ, report)
	if err := s.publisher.Publish(ctx, kafka.TopicProtocolAnalyzed, event); err != nil {
		s.log.Warn("failed to publish analyzed event",
			logging.String("protocol_id", string(p.ID)), logging.Err(err))
		s.recordEvent(kafka.TopicProtocolAnalyzed, false)
	} else {
		s.recordEvent(kafka.TopicProtocolAnalyzed, true)
	}
}

func (s *AnalysisService) saveRecord(ctx context.Context, record *domainProtocol.Analysis) {
	if err := s.analyses.Save(ctx, record); err != nil {
		s.log.Error("failed to store analysis record",
			logging.String("protocol_id", string(record.ProtocolID)),
			logging.String("type", string(record.Type)),
			logging.Err(err))
	}
}

func (s *AnalysisService) recordAnalysis(typ ptypes.AnalysisType, started time.Time, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordAnalysis(string(typ), time.Since(started), ok)
	}
}

func (s *AnalysisService) recordEvent(topic string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordEventPublished(topic, ok)
	}
}

// resultMetadata converts a typed result into the metadata bag stored with
// an analysis record.
func resultMetadata(v interface{}) common.Metadata {
	data, err := json.Marshal(v)
	if err != nil {
		return common.Metadata{}
	}
	var m common.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return common.Metadata{}
	}
	return m
}

// decodeMetadata converts a stored metadata bag back into a typed value.
func decodeMetadata(m common.Metadata, dest interface{}) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
