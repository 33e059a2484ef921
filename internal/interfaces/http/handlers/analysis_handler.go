package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appProtocol "github.com/turtacn/protoscribe/internal/application/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// AnalysisHandler handles compliance and LLM analysis requests.
type AnalysisHandler struct {
	svc *appProtocol.AnalysisService
	log logging.Logger
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(svc *appProtocol.AnalysisService, log logging.Logger) *AnalysisHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AnalysisHandler{svc: svc, log: log.Named("http.analysis")}
}

func analysisProtocolID(r *http.Request) ptypes.ProtocolID {
	return ptypes.ProtocolID(chi.URLParam(r, "protocolID"))
}

// Compliance handles POST /api/v1/analysis/{protocolID}/compliance.
func (h *AnalysisHandler) Compliance(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Compliance(r.Context(), analysisProtocolID(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Comprehensive handles POST /api/v1/analysis/{protocolID}/comprehensive.
func (h *AnalysisHandler) Comprehensive(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Comprehensive(r.Context(), analysisProtocolID(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Suggestions handles POST /api/v1/analysis/{protocolID}/suggestions.
func (h *AnalysisHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	id := analysisProtocolID(r)
	suggestions, err := h.svc.Suggestions(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"protocol_id": id,
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// Clarity handles POST /api/v1/analysis/{protocolID}/clarity-check.
func (h *AnalysisHandler) Clarity(w http.ResponseWriter, r *http.Request) {
	id := analysisProtocolID(r)
	issues, err := h.svc.Clarity(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"protocol_id":  id,
		"issues_found": len(issues),
		"issues":       issues,
	})
}

// Consistency handles POST /api/v1/analysis/{protocolID}/consistency-check.
func (h *AnalysisHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	id := analysisProtocolID(r)
	issues, err := h.svc.Consistency(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"protocol_id":  id,
		"issues_found": len(issues),
		"issues":       issues,
	})
}

// ExecutiveSummary handles GET /api/v1/analysis/{protocolID}/executive-summary.
func (h *AnalysisHandler) ExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.ExecutiveSummary(r.Context(), analysisProtocolID(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// History handles GET /api/v1/analysis/{protocolID}/analysis-history.
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.History(r.Context(), analysisProtocolID(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Score handles GET /api/v1/analysis/{protocolID}/score.
func (h *AnalysisHandler) Score(w http.ResponseWriter, r *http.Request) {
	score, err := h.svc.Score(r.Context(), analysisProtocolID(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}
