// Package protocol provides the application services that orchestrate the
// protocol lifecycle: upload and document processing, compliance and LLM
// analyses, and retrieval.  Handlers call these services; domain rules stay
// in internal/domain.
package protocol

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/turtacn/protoscribe/internal/application/document"
	"github.com/turtacn/protoscribe/internal/config"
	domainProtocol "github.com/turtacn/protoscribe/internal/domain/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/protoscribe/internal/infrastructure/storage"
	"github.com/turtacn/protoscribe/pkg/errors"
	"github.com/turtacn/protoscribe/pkg/textutil"
	"github.com/turtacn/protoscribe/pkg/types/common"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// UploadInput carries one uploaded document.
type UploadInput struct {
	Filename string
	Data     []byte
}

// ListInput narrows and pages a protocol listing.
type ListInput struct {
	Status   ptypes.ProtocolStatus
	Page     int
	PageSize int
}

// ListResult is a page of protocols plus the total match count.
type ListResult struct {
	Protocols []ptypes.Protocol `json:"protocols"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}

// Service handles protocol CRUD and upload processing.
type Service struct {
	repo      domainProtocol.Repository
	processor *document.Processor
	store     storage.DocumentStore
	publisher kafka.Publisher
	storage   config.StorageConfig
	metrics   *prometheus.AppMetrics
	log       logging.Logger
}

// NewService wires the protocol service. publisher and metrics may be nil.
func NewService(
	repo domainProtocol.Repository,
	processor *document.Processor,
	store storage.DocumentStore,
	publisher kafka.Publisher,
	storageCfg config.StorageConfig,
	metrics *prometheus.AppMetrics,
	log logging.Logger,
) *Service {
	if publisher == nil {
		publisher = kafka.NewNopPublisher()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	if len(storageCfg.AllowedFileTypes) == 0 {
		storageCfg.AllowedFileTypes = []string{".pdf", ".docx", ".txt"}
	}
	if storageCfg.MaxFileSize <= 0 {
		storageCfg.MaxFileSize = 10 << 20
	}
	return &Service{
		repo:      repo,
		processor: processor,
		store:     store,
		publisher: publisher,
		storage:   storageCfg,
		metrics:   metrics,
		log:       log.Named("protocol.service"),
	}
}

// Upload validates, stores, and processes one uploaded document, returning
// the persisted protocol.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*ptypes.Protocol, error) {
	if !textutil.ValidFileType(input.Filename, s.storage.AllowedFileTypes) {
		s.recordUpload(input.Filename, 0, false)
		return nil, errors.Newf(errors.ErrCodeDocumentTypeUnsupported,
			"unsupported file type; allowed: %v", s.storage.AllowedFileTypes)
	}
	size := int64(len(input.Data))
	if size == 0 {
		s.recordUpload(input.Filename, 0, false)
		return nil, errors.New(errors.ErrCodeDocumentEmpty, "uploaded file is empty")
	}
	if size > s.storage.MaxFileSize {
		s.recordUpload(input.Filename, 0, false)
		return nil, errors.Newf(errors.ErrCodeDocumentTooLarge,
			"file size %s exceeds limit %s",
			textutil.FormatFileSize(size), textutil.FormatFileSize(s.storage.MaxFileSize))
	}

	p, err := domainProtocol.NewProtocol(input.Filename, size)
	if err != nil {
		return nil, err
	}

	objectKey := "protocols/" + string(p.ID) + p.FileType
	if err := s.store.Put(ctx, objectKey, input.Data, ""); err != nil {
		s.recordUpload(p.FileType, 0, false)
		return nil, err
	}
	p.ObjectKey = objectKey

	doc, err := s.processor.Process(ctx, input.Filename, input.Data)
	if err != nil {
		_ = p.MarkFailed()
		if saveErr := s.repo.Save(ctx, p); saveErr != nil {
			s.log.Error("failed to persist failed protocol",
				logging.String("protocol_id", string(p.ID)), logging.Err(saveErr))
		}
		s.recordUpload(p.FileType, 0, false)
		return nil, err
	}

	if err := p.MarkProcessed(doc.Title, doc.Content, doc.Sections, doc.WordCount); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.TopicProtocolUploaded, domainProtocol.NewProtocolUploadedEvent(p))
	s.recordUpload(p.FileType, size, true)
	s.log.Info("protocol uploaded",
		logging.String("protocol_id", string(p.ID)),
		logging.String("filename", p.Filename),
		logging.Int("word_count", p.WordCount))

	dto := p.ToDTO(false)
	return &dto, nil
}

// Get returns one protocol. Content is included only when includeContent is
// set, since extracted text can be large.
func (s *Service) Get(ctx context.Context, id ptypes.ProtocolID, includeContent bool) (*ptypes.Protocol, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := p.ToDTO(includeContent)
	return &dto, nil
}

// List returns a page of protocols, newest first.
func (s *Service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.PageSize < 1 || input.PageSize > 100 {
		input.PageSize = 20
	}

	items, total, err := s.repo.List(ctx, domainProtocol.ListFilter{
		Status: input.Status,
		Limit:  input.PageSize,
		Offset: (input.Page - 1) * input.PageSize,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]ptypes.Protocol, 0, len(items))
	for _, p := range items {
		dtos = append(dtos, p.ToDTO(false))
	}
	return &ListResult{
		Protocols: dtos,
		Total:     total,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}, nil
}

// Delete removes a protocol, its stored document, and its analyses.
func (s *Service) Delete(ctx context.Context, id ptypes.ProtocolID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if p.ObjectKey != "" {
		if err := s.store.Remove(ctx, p.ObjectKey); err != nil {
			s.log.Warn("failed to remove stored document",
				logging.String("object_key", p.ObjectKey), logging.Err(err))
		}
	}
	s.publish(ctx, kafka.TopicProtocolDeleted, domainProtocol.NewProtocolDeletedEvent(p))
	s.log.Info("protocol deleted", logging.String("protocol_id", string(id)))
	return nil
}

// publish sends an event best-effort; a broker failure never fails the
// request that produced the event.
func (s *Service) publish(ctx context.Context, topic string, event common.DomainEvent) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.log.Warn("failed to publish event", logging.String("topic", topic), logging.Err(err))
		s.recordEvent(topic, false)
		return
	}
	s.recordEvent(topic, true)
}

func (s *Service) recordEvent(topic string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordEventPublished(topic, ok)
	}
}

func (s *Service) recordUpload(fileType string, size int64, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordUpload(fileType, size, ok)
	}
}

// contentHash fingerprints extracted content for cache keys.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:8])
}
