package handlers

import (
	"net/http"

	"github.com/turtacn/protoscribe/internal/domain/guideline"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// GuidelineHandler serves the guideline checklists the compliance engine
// checks against.
type GuidelineHandler struct {
	registry *guideline.Registry
}

// NewGuidelineHandler creates a guideline handler.
func NewGuidelineHandler(registry *guideline.Registry) *GuidelineHandler {
	return &GuidelineHandler{registry: registry}
}

// List handles GET /api/v1/guidelines.
func (h *GuidelineHandler) List(w http.ResponseWriter, r *http.Request) {
	checklists := h.registry.All()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"guidelines": checklists,
		"count":      len(checklists),
	})
}

// Consort handles GET /api/v1/guidelines/consort.
func (h *GuidelineHandler) Consort(w http.ResponseWriter, r *http.Request) {
	h.serve(w, ptypes.GuidelineCONSORT)
}

// Spirit handles GET /api/v1/guidelines/spirit.
func (h *GuidelineHandler) Spirit(w http.ResponseWriter, r *http.Request) {
	h.serve(w, ptypes.GuidelineSPIRIT)
}

func (h *GuidelineHandler) serve(w http.ResponseWriter, name ptypes.GuidelineName) {
	checklist, err := h.registry.Get(name)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checklist)
}
