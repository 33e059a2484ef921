package kafka

import (
	"context"
	"testing"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
)

type mockConn struct {
	mock.Mock
}

func (m *mockConn) CreateTopics(topics ...segkafka.TopicConfig) error {
	args := m.Called(topics)
	return args.Error(0)
}

func (m *mockConn) ReadPartitions(topics ...string) ([]segkafka.Partition, error) {
	args := m.Called(topics)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]segkafka.Partition), args.Error(1)
}

func (m *mockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestEnsureDefaultTopics(t *testing.T) {
	conn := new(mockConn)
	conn.On("CreateTopics", mock.Anything).Return(nil).Times(3)

	mgr := NewTopicManagerWithConn(conn, logging.NewNopLogger())
	require.NoError(t, mgr.EnsureDefaultTopics(context.Background()))
	conn.AssertExpectations(t)
}

func TestEnsureTopicsToleratesExisting(t *testing.T) {
	conn := new(mockConn)
	conn.On("CreateTopics", mock.Anything).Return(assert.AnError)
	conn.On("ReadPartitions", []string{TopicProtocolUploaded}).
		Return([]segkafka.Partition{{Topic: TopicProtocolUploaded}}, nil)

	mgr := NewTopicManagerWithConn(conn, logging.NewNopLogger())
	err := mgr.EnsureTopics(context.Background(), []TopicConfig{
		{Name: TopicProtocolUploaded, NumPartitions: 3, ReplicationFactor: 1},
	})
	require.NoError(t, err)
}

func TestEnsureTopicsFailure(t *testing.T) {
	conn := new(mockConn)
	conn.On("CreateTopics", mock.Anything).Return(assert.AnError)
	conn.On("ReadPartitions", []string{"broken"}).Return(nil, assert.AnError)

	mgr := NewTopicManagerWithConn(conn, logging.NewNopLogger())
	err := mgr.EnsureTopics(context.Background(), []TopicConfig{
		{Name: "broken", NumPartitions: 1, ReplicationFactor: 1},
	})
	require.Error(t, err)
}

func TestEnsureTopicsRejectsUnnamed(t *testing.T) {
	mgr := NewTopicManagerWithConn(new(mockConn), logging.NewNopLogger())
	err := mgr.EnsureTopics(context.Background(), []TopicConfig{{NumPartitions: 1}})
	require.Error(t, err)
}

func TestDefaultTopicsCoverLifecycle(t *testing.T) {
	names := make([]string, 0, 3)
	for _, cfg := range DefaultTopics() {
		names = append(names, cfg.Name)
		assert.Positive(t, cfg.NumPartitions)
		assert.Positive(t, cfg.ReplicationFactor)
	}
	assert.ElementsMatch(t, []string{TopicProtocolUploaded, TopicProtocolAnalyzed, TopicProtocolDeleted}, names)
}

func TestTopicManagerClose(t *testing.T) {
	conn := new(mockConn)
	conn.On("Close").Return(nil)

	mgr := NewTopicManagerWithConn(conn, logging.NewNopLogger())
	require.NoError(t, mgr.Close())
	conn.AssertExpectations(t)
}
