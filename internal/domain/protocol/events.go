package protocol

import (
	"github.com/turtacn/protoscribe/pkg/types/common"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// ProtocolUploadedEvent is published after a document has been stored and
// segmented.
type ProtocolUploadedEvent struct {
	common.BaseEvent
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	FileType  string `json:"file_type"`
	WordCount int    `json:"word_count"`
}

// NewProtocolUploadedEvent builds the event from a processed protocol.
func NewProtocolUploadedEvent(p *Protocol) *ProtocolUploadedEvent {
	return &ProtocolUploadedEvent{
		BaseEvent: common.NewBaseEvent(string(p.ID)),
		Title:     p.Title,
		Filename:  p.Filename,
		FileType:  p.FileType,
		WordCount: p.WordCount,
	}
}

// ProtocolAnalyzedEvent is published after a compliance analysis completes.
type ProtocolAnalyzedEvent struct {
	common.BaseEvent
	AnalysisType ptypes.AnalysisType `json:"analysis_type"`
	Score        float64             `json:"score"`
	FailedItems  int                 `json:"failed_items"`
	WarningItems int                 `json:"warning_items"`
}

// NewProtocolAnalyzedEvent builds the event from a compliance report.
func NewProtocolAnalyzedEvent(id ptypes.ProtocolID, typ ptypes.AnalysisType, report *ptypes.ComplianceReport) *ProtocolAnalyzedEvent {
	ev := &ProtocolAnalyzedEvent{
		BaseEvent:    common.NewBaseEvent(string(id)),
		AnalysisType: typ,
	}
	if report != nil {
		ev.Score = report.Score
		ev.FailedItems = len(report.FailedItems)
		ev.WarningItems = len(report.Warnings)
	}
	return ev
}

// ProtocolDeletedEvent is published after a protocol and its analyses are
// removed.
type ProtocolDeletedEvent struct {
	common.BaseEvent
	Filename string `json:"filename"`
}

// NewProtocolDeletedEvent builds the event from the deleted protocol.
func NewProtocolDeletedEvent(p *Protocol) *ProtocolDeletedEvent {
	return &ProtocolDeletedEvent{
		BaseEvent: common.NewBaseEvent(string(p.ID)),
		Filename:  p.Filename,
	}
}
