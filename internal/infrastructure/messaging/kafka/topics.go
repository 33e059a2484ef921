// Package kafka publishes protocol lifecycle events so downstream systems
// (audit trails, notification services, data warehouses) can react to
// uploads and completed analyses.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
)

const (
	TopicProtocolUploaded = "protocol.uploaded"
	TopicProtocolAnalyzed = "protocol.analyzed"
	TopicProtocolDeleted  = "protocol.deleted"
)

// EventEnvelope is the wire format shared by all published events.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope wraps payload for publication under eventType.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}

// TopicConfig describes one topic for EnsureTopics.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// DefaultTopics lists the topics the service publishes to.
func DefaultTopics() []TopicConfig {
	const week = 7 * 24 * 3600 * 1000
	return []TopicConfig{
		{Name: TopicProtocolUploaded, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: week},
		{Name: TopicProtocolAnalyzed, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: week},
		{Name: TopicProtocolDeleted, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 4 * week},
	}
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates the service's topics at startup.
type TopicManager struct {
	conn ConnInterface
	log  logging.Logger
}

// NewTopicManager dials the first broker.
func NewTopicManager(brokers []string, log logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "dial kafka broker")
	}
	return &TopicManager{conn: conn, log: log.Named("kafka.topics")}, nil
}

// NewTopicManagerWithConn builds a manager on an existing connection.
func NewTopicManagerWithConn(conn ConnInterface, log logging.Logger) *TopicManager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, log: log.Named("kafka.topics")}
}

// EnsureTopics creates any missing topics from cfgs.
func (m *TopicManager) EnsureTopics(ctx context.Context, cfgs []TopicConfig) error {
	for _, cfg := range cfgs {
		if err := m.createTopic(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDefaultTopics creates the service's default topic set.
func (m *TopicManager) EnsureDefaultTopics(ctx context.Context) error {
	return m.EnsureTopics(ctx, DefaultTopics())
}

func (m *TopicManager) createTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs),
		})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if exists, _ := m.topicExists(cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeExternalService, "create topic "+cfg.Name)
	}
	m.log.Info("topic ensured", logging.String("topic", cfg.Name))
	return nil
}

func (m *TopicManager) topicExists(name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, err
	}
	return len(partitions) > 0, nil
}

// Close releases the broker connection.
func (m *TopicManager) Close() error {
	return m.conn.Close()
}
