// Package protocol implements the protocol bounded context: the aggregate
// root for uploaded protocol documents, stored analysis runs, and the
// persistence contracts the infrastructure layer fulfils.  Business rules
// about protocol lifecycle live here; parsing and scoring are application
// services.
package protocol

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/protoscribe/pkg/errors"
	"github.com/turtacn/protoscribe/pkg/types/common"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// allowedTransitions defines the valid next states reachable from each
// status.  Transitions not listed are illegal and rejected by UpdateStatus.
//
//	Uploaded ──► Processed ──► Analyzed
//	    │            │
//	    └────────────┴──► Failed
var allowedTransitions = map[ptypes.ProtocolStatus][]ptypes.ProtocolStatus{
	ptypes.StatusUploaded:  {ptypes.StatusProcessed, ptypes.StatusFailed},
	ptypes.StatusProcessed: {ptypes.StatusAnalyzed, ptypes.StatusFailed},
	ptypes.StatusAnalyzed:  {ptypes.StatusAnalyzed},
	ptypes.StatusFailed:    {},
}

// Protocol is the aggregate root for an uploaded clinical-trial protocol.
type Protocol struct {
	ID        ptypes.ProtocolID
	Title     string
	Filename  string
	FileType  string
	FileSize  int64
	ObjectKey string
	Content   string
	Sections  map[string]string
	WordCount int
	Status    ptypes.ProtocolStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProtocol constructs a Protocol in the uploaded state.  The filename must
// be non-empty; title and sections are filled in later by MarkProcessed once
// the document layer has extracted them.
func NewProtocol(filename string, fileSize int64) (*Protocol, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errors.InvalidParam("filename must not be empty")
	}

	now := time.Now().UTC()
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx:])
	}

	return &Protocol{
		ID:        ptypes.ProtocolID(uuid.New().String()),
		Filename:  filename,
		FileType:  ext,
		FileSize:  fileSize,
		Status:    ptypes.StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateStatus transitions the protocol to the given status, enforcing the
// lifecycle state machine.
func (p *Protocol) UpdateStatus(next ptypes.ProtocolStatus) error {
	if !next.IsValid() {
		return errors.InvalidParam("invalid protocol status").WithDetail(string(next))
	}
	for _, allowed := range allowedTransitions[p.Status] {
		if allowed == next {
			p.Status = next
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return errors.Conflict("illegal protocol status transition").
		WithDetail(string(p.Status) + " -> " + string(next))
}

// MarkProcessed records the extraction result and moves the protocol to the
// processed state.
func (p *Protocol) MarkProcessed(title, content string, sections map[string]string, wordCount int) error {
	if err := p.UpdateStatus(ptypes.StatusProcessed); err != nil {
		return err
	}
	p.Title = title
	p.Content = content
	p.Sections = sections
	p.WordCount = wordCount
	return nil
}

// MarkAnalyzed moves the protocol to the analyzed state.  Re-analysis of an
// already analyzed protocol is permitted.
func (p *Protocol) MarkAnalyzed() error {
	return p.UpdateStatus(ptypes.StatusAnalyzed)
}

// MarkFailed moves the protocol to the terminal failed state.
func (p *Protocol) MarkFailed() error {
	return p.UpdateStatus(ptypes.StatusFailed)
}

// IsProcessed reports whether segmentation has completed and the protocol is
// ready for compliance analysis.
func (p *Protocol) IsProcessed() bool {
	return p.Status == ptypes.StatusProcessed || p.Status == ptypes.StatusAnalyzed
}

// ToDTO converts the aggregate into its API representation.  Content is a
// potentially large field and is only included when includeContent is set.
func (p *Protocol) ToDTO(includeContent bool) ptypes.Protocol {
	dto := ptypes.Protocol{
		ID:        p.ID,
		Title:     p.Title,
		Filename:  p.Filename,
		FileType:  p.FileType,
		FileSize:  p.FileSize,
		WordCount: p.WordCount,
		Status:    p.Status,
		Sections:  p.Sections,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if includeContent {
		dto.Content = p.Content
	}
	return dto
}

// Analysis is a stored analysis run for a protocol.  The Result bag holds the
// type-specific payload (a ComplianceReport, a suggestion list, etc.) as it
// was returned to the caller.
type Analysis struct {
	ID         common.ID
	ProtocolID ptypes.ProtocolID
	Type       ptypes.AnalysisType
	Score      float64
	Result     common.Metadata
	CreatedAt  time.Time
}

// NewAnalysis constructs an Analysis record for a protocol.
func NewAnalysis(protocolID ptypes.ProtocolID, typ ptypes.AnalysisType, score float64, result common.Metadata) *Analysis {
	return &Analysis{
		ID:         common.NewID(),
		ProtocolID: protocolID,
		Type:       typ,
		Score:      score,
		Result:     result,
		CreatedAt:  time.Now().UTC(),
	}
}

// ToDTO converts the analysis into its API representation.
func (a *Analysis) ToDTO() ptypes.AnalysisRecord {
	return ptypes.AnalysisRecord{
		ID:         a.ID,
		ProtocolID: a.ProtocolID,
		Type:       a.Type,
		Score:      a.Score,
		Result:     a.Result,
		CreatedAt:  a.CreatedAt,
	}
}
