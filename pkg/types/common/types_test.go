package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate_ValidUUID(t *testing.T) {
	id := ID("550e8400-e29b-41d4-a716-446655440000")
	assert.NoError(t, id.Validate())
}

func TestID_Validate_EmptyString(t *testing.T) {
	err := ID("").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestID_Validate_InvalidFormat(t *testing.T) {
	err := ID("not-a-uuid").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ID format")
}

func TestNewID_GeneratesValidUUID(t *testing.T) {
	assert.NoError(t, NewID().Validate())
}

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	now := Timestamp(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC))

	data, err := json.Marshal(now)
	require.NoError(t, err)

	var parsed Timestamp
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, time.Time(now).Equal(time.Time(parsed)))
}

func TestPagination_Validate(t *testing.T) {
	assert.NoError(t, Pagination{Page: 1, PageSize: 20}.Validate())
	assert.Error(t, Pagination{Page: 0, PageSize: 20}.Validate())
	assert.Error(t, Pagination{Page: 1, PageSize: 0}.Validate())
	assert.Error(t, Pagination{Page: 1, PageSize: 501}.Validate())
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, Pagination{Page: 3, PageSize: 20}.Offset())
}

func TestBaseEvent(t *testing.T) {
	ev := NewBaseEvent("proto_123")
	assert.NotEmpty(t, ev.EventID())
	assert.Equal(t, "proto_123", ev.AggregateID())
	assert.WithinDuration(t, time.Now().UTC(), ev.OccurredAt(), time.Minute)
}
