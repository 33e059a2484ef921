package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Protocol lifecycle
	ProtocolUploadsTotal    CounterVec
	ProtocolUploadBytes     HistogramVec
	ProtocolsStored         GaugeVec
	DocumentProcessDuration HistogramVec

	// Compliance analysis
	AnalysisTotal            CounterVec
	AnalysisDuration         HistogramVec
	ComplianceScore          HistogramVec
	ChecklistItemsFailed     CounterVec

	// LLM layer
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec

	// Infrastructure
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	EventsPublished  CounterVec
	ErrorsTotal      CounterVec
}

var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	analysisDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	llmDurationBuckets      = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
	uploadSizeBuckets       = []float64{1 << 10, 10 << 10, 100 << 10, 1 << 20, 10 << 20, 50 << 20}
	scoreBuckets            = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// NewAppMetrics registers the full metric set on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", httpDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.ProtocolUploadsTotal = collector.RegisterCounter("protocol_uploads_total", "Protocol uploads", "file_type", "status")
	m.ProtocolUploadBytes = collector.RegisterHistogram("protocol_upload_bytes", "Uploaded document size", uploadSizeBuckets, "file_type")
	m.ProtocolsStored = collector.RegisterGauge("protocols_stored", "Stored protocols by status", "status")
	m.DocumentProcessDuration = collector.RegisterHistogram("document_process_duration_seconds", "Text extraction and segmentation duration", analysisDurationBuckets, "file_type")

	m.AnalysisTotal = collector.RegisterCounter("analysis_total", "Analyses run", "type", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Analysis duration", analysisDurationBuckets, "type")
	m.ComplianceScore = collector.RegisterHistogram("compliance_score", "Overall compliance score distribution", scoreBuckets, "guideline")
	m.ChecklistItemsFailed = collector.RegisterCounter("checklist_items_failed_total", "Failed checklist items", "guideline")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "LLM requests", "provider", "task", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "LLM request duration", llmDurationBuckets, "provider", "task")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Domain events published", "topic", "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component", "component", "code")

	return m
}

// RecordHTTPRequest updates the HTTP request counter and latency histogram.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordUpload records one upload attempt.
func (m *AppMetrics) RecordUpload(fileType string, size int64, success bool) {
	m.ProtocolUploadsTotal.WithLabelValues(fileType, outcome(success)).Inc()
	if success {
		m.ProtocolUploadBytes.WithLabelValues(fileType).Observe(float64(size))
	}
}

// RecordAnalysis records one analysis run of the given type.
func (m *AppMetrics) RecordAnalysis(analysisType string, duration time.Duration, success bool) {
	m.AnalysisTotal.WithLabelValues(analysisType, outcome(success)).Inc()
	m.AnalysisDuration.WithLabelValues(analysisType).Observe(duration.Seconds())
}

// RecordComplianceScores records per-guideline scores and failed item counts.
func (m *AppMetrics) RecordComplianceScores(scores map[string]float64, failed map[string]int) {
	for guideline, score := range scores {
		m.ComplianceScore.WithLabelValues(guideline).Observe(score)
	}
	for guideline, count := range failed {
		if count > 0 {
			m.ChecklistItemsFailed.WithLabelValues(guideline).Add(float64(count))
		}
	}
}

// RecordLLMCall records one LLM round trip.
func (m *AppMetrics) RecordLLMCall(provider, task string, duration time.Duration, success bool) {
	m.LLMRequestsTotal.WithLabelValues(provider, task, outcome(success)).Inc()
	m.LLMRequestDuration.WithLabelValues(provider, task).Observe(duration.Seconds())
}

// RecordCacheAccess records a cache hit or miss.
func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordEventPublished records one event publication attempt.
func (m *AppMetrics) RecordEventPublished(topic string, success bool) {
	m.EventsPublished.WithLabelValues(topic, outcome(success)).Inc()
}

// RecordError counts an application error by component and code.
func (m *AppMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
