package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	appProtocol "github.com/turtacn/protoscribe/internal/application/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// ProtocolHandler handles protocol upload and CRUD requests.
type ProtocolHandler struct {
	svc           *appProtocol.Service
	maxUploadSize int64
	log           logging.Logger
}

// NewProtocolHandler creates a protocol handler. maxUploadSize bounds how
// much of a multipart body is read; zero means 10 MiB.
func NewProtocolHandler(svc *appProtocol.Service, maxUploadSize int64, log logging.Logger) *ProtocolHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ProtocolHandler{svc: svc, maxUploadSize: maxUploadSize, log: log.Named("http.protocols")}
}

// Upload handles POST /api/v1/protocols/upload. The document arrives as the
// multipart form field "file".
func (h *ProtocolHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeAppError(w, errors.New(errors.ErrCodeBadRequest, "expected multipart form with a \"file\" field"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAppError(w, errors.New(errors.ErrCodeBadRequest, "missing \"file\" form field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeAppError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "read uploaded file"))
		return
	}

	dto, err := h.svc.Upload(r.Context(), appProtocol.UploadInput{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// CreateSample handles POST /api/v1/protocols/create-sample. It seeds a
// built-in demonstration protocol through the regular upload pipeline.
func (h *ProtocolHandler) CreateSample(w http.ResponseWriter, r *http.Request) {
	dto, err := h.svc.CreateSample(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// List handles GET /api/v1/protocols.
func (h *ProtocolHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	result, err := h.svc.List(r.Context(), appProtocol.ListInput{
		Status:   ptypes.ProtocolStatus(r.URL.Query().Get("status")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /api/v1/protocols/{protocolID}. Extracted text is included
// only when include_content=true.
func (h *ProtocolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := ptypes.ProtocolID(chi.URLParam(r, "protocolID"))
	includeContent := r.URL.Query().Get("include_content") == "true"

	dto, err := h.svc.Get(r.Context(), id, includeContent)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Delete handles DELETE /api/v1/protocols/{protocolID}.
func (h *ProtocolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := ptypes.ProtocolID(chi.URLParam(r, "protocolID"))

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "protocol deleted",
		"protocol_id": string(id),
	})
}
