package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/protoscribe/internal/config"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
	"github.com/turtacn/protoscribe/pkg/types/common"
)

const eventSource = "protoscribe-api"

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer closed")

// Publisher is the event publication contract the application layer depends
// on. The Kafka producer and the nop publisher implement it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event common.DomainEvent) error
	Close() error
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes domain events wrapped in EventEnvelope. Messages are
// keyed by aggregate ID so events for one protocol stay ordered within a
// partition.
type Producer struct {
	writer WriterInterface
	log    logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
	failed atomic.Int64
}

var _ Publisher = (*Producer)(nil)

// NewProducer builds a Kafka-backed publisher from config.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  retries + 1,
		BatchSize:    batchSize,
		BatchTimeout: time.Second,
		WriteTimeout: timeout,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer, log: log.Named("kafka.producer")}, nil
}

// NewProducerWithWriter builds a producer on an existing writer.
func NewProducerWithWriter(writer WriterInterface, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: writer, log: log.Named("kafka.producer")}
}

// Publish wraps event in an envelope and writes it to topic. The envelope
// event type is the topic name.
func (p *Producer) Publish(ctx context.Context, topic string, event common.DomainEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}

	envelope, err := NewEventEnvelope(topic, eventSource, event)
	if err != nil {
		return err
	}
	msg, err := envelope.toKafkaMessage(topic, event.AggregateID())
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "publish event")
	}

	p.sent.Add(1)
	p.log.Debug("event published",
		logging.String("topic", topic),
		logging.String("aggregate_id", event.AggregateID()))
	return nil
}

// Sent returns the number of successfully published events.
func (p *Producer) Sent() int64 { return p.sent.Load() }

// Failed returns the number of failed publish attempts.
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close flushes and closes the underlying writer. Close is idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.log.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}

func (e *EventEnvelope) toKafkaMessage(topic, key string) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, errors.Wrap(err, errors.ErrCodeSerialization, "marshal event envelope")
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  e.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "source_service", Value: []byte(e.Source)},
			{Key: "schema_version", Value: []byte(e.SchemaVersion)},
		},
	}, nil
}

// nopPublisher drops all events. Used when Kafka is disabled.
type nopPublisher struct{}

// NewNopPublisher returns a publisher that discards every event.
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, common.DomainEvent) error { return nil }

func (nopPublisher) Close() error { return nil }
