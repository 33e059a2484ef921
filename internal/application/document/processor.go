// Package document turns uploaded protocol files into structured content:
// plain text, an extracted title, and a heading-based section map that the
// compliance engine consumes.
package document

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
)

// Extractor converts one file format into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ProcessedDocument is the structured result of processing an upload.
type ProcessedDocument struct {
	Title     string
	Content   string
	Sections  map[string]string
	WordCount int
	FileType  string
}

// Processor dispatches uploads to format extractors and derives structure
// from the extracted text.
type Processor struct {
	extractors map[string]Extractor
	log        logging.Logger
}

// NewProcessor builds a processor with the built-in extractors registered:
// plain text and DOCX are handled natively, PDF reports that no converter
// is available until one is registered.
func NewProcessor(log logging.Logger) *Processor {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Processor{
		extractors: map[string]Extractor{
			".txt":  textExtractor{},
			".docx": docxExtractor{},
			".pdf":  unsupportedExtractor{format: "PDF"},
		},
		log: log.Named("document"),
	}
}

// RegisterExtractor installs or replaces the extractor for a file extension.
func (p *Processor) RegisterExtractor(ext string, e Extractor) {
	p.extractors[strings.ToLower(ext)] = e
}

// SupportedTypes lists the registered file extensions.
func (p *Processor) SupportedTypes() []string {
	out := make([]string, 0, len(p.extractors))
	for ext := range p.extractors {
		out = append(out, ext)
	}
	return out
}

// Process extracts text from an uploaded file and segments it.
func (p *Processor) Process(ctx context.Context, filename string, data []byte) (*ProcessedDocument, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	extractor, ok := p.extractors[ext]
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentTypeUnsupported, "unsupported file format: "+ext)
	}

	content, err := extractor.Extract(ctx, data)
	if err != nil {
		if errors.GetCode(err) != errors.CodeUnknown {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDocumentExtractFailed, "extract "+ext+" content")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrCodeDocumentEmpty, "document contains no extractable text")
	}

	doc := &ProcessedDocument{
		Title:     ExtractTitle(content),
		Content:   content,
		Sections:  SegmentSections(content),
		WordCount: len(strings.Fields(content)),
		FileType:  ext,
	}
	p.log.Debug("document processed",
		logging.String("filename", filename),
		logging.String("title", doc.Title),
		logging.Int("sections", len(doc.Sections)),
		logging.Int("words", doc.WordCount))
	return doc, nil
}

type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}

// unsupportedExtractor keeps a format advertised while no converter is
// registered for it.
type unsupportedExtractor struct {
	format string
}

func (u unsupportedExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	return "", errors.New(errors.ErrCodeDocumentExtractFailed, u.format+" extraction requires an external converter")
}
