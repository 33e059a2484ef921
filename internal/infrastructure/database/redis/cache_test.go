package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
)

type cachedReport struct {
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

type CacheSuite struct {
	suite.Suite

	mock  redismock.ClientMock
	cache Cache
}

func (s *CacheSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	client := &Client{rdb: db, log: logging.NewNopLogger()}
	s.cache = NewCache(client, "test", time.Minute, logging.NewNopLogger())
}

func (s *CacheSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CacheSuite) TestGetHit() {
	stored, err := json.Marshal(cachedReport{Score: 85.7, Status: "completed"})
	s.Require().NoError(err)
	s.mock.ExpectGet("test:report:p-1").SetVal(string(stored))

	var got cachedReport
	s.Require().NoError(s.cache.Get(context.Background(), "report:p-1", &got))
	s.Equal(85.7, got.Score)
	s.Equal("completed", got.Status)
}

func (s *CacheSuite) TestGetMiss() {
	s.mock.ExpectGet("test:report:missing").RedisNil()

	var got cachedReport
	err := s.cache.Get(context.Background(), "report:missing", &got)
	s.Require().ErrorIs(err, ErrCacheMiss)
	s.True(errors.IsNotFound(err))
}

func (s *CacheSuite) TestGetCorruptPayload() {
	s.mock.ExpectGet("test:report:bad").SetVal("{not json")

	var got cachedReport
	err := s.cache.Get(context.Background(), "report:bad", &got)
	s.Require().Error(err)
	s.Equal(errors.ErrCodeSerialization, errors.GetCode(err))
}

func (s *CacheSuite) TestSetAppliesDefaultTTL() {
	data, err := json.Marshal(cachedReport{Score: 50})
	s.Require().NoError(err)
	s.mock.ExpectSet("test:report:p-2", data, time.Minute).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "report:p-2", cachedReport{Score: 50}, 0))
}

func (s *CacheSuite) TestSetExplicitTTL() {
	data, err := json.Marshal(cachedReport{Score: 50})
	s.Require().NoError(err)
	s.mock.ExpectSet("test:report:p-2", data, 10*time.Second).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "report:p-2", cachedReport{Score: 50}, 10*time.Second))
}

func (s *CacheSuite) TestDelete() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
}

func (s *CacheSuite) TestDeleteNoKeys() {
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheSuite) TestGetOrSetHitSkipsLoader() {
	stored, err := json.Marshal(cachedReport{Score: 90})
	s.Require().NoError(err)
	s.mock.ExpectGet("test:report:p-3").SetVal(string(stored))

	var got cachedReport
	err = s.cache.GetOrSet(context.Background(), "report:p-3", &got, time.Minute,
		func(context.Context) (interface{}, error) {
			s.Fail("loader should not run on a cache hit")
			return nil, nil
		})
	s.Require().NoError(err)
	s.Equal(90.0, got.Score)
}

func (s *CacheSuite) TestGetOrSetMissRunsLoader() {
	loaded := cachedReport{Score: 42.5, Status: "completed"}
	data, err := json.Marshal(loaded)
	s.Require().NoError(err)

	s.mock.ExpectGet("test:report:p-4").RedisNil()
	s.mock.ExpectSet("test:report:p-4", data, time.Minute).SetVal("OK")

	calls := 0
	var got cachedReport
	err = s.cache.GetOrSet(context.Background(), "report:p-4", &got, 0,
		func(context.Context) (interface{}, error) {
			calls++
			return loaded, nil
		})
	s.Require().NoError(err)
	s.Equal(1, calls)
	s.Equal(loaded, got)
}

func (s *CacheSuite) TestGetOrSetLoaderError() {
	s.mock.ExpectGet("test:report:p-5").RedisNil()

	var got cachedReport
	err := s.cache.GetOrSet(context.Background(), "report:p-5", &got, time.Minute,
		func(context.Context) (interface{}, error) {
			return nil, errors.New(errors.ErrCodeAIRequestFailed, "upstream down")
		})
	s.Require().Error(err)
	s.Equal(errors.ErrCodeAIRequestFailed, errors.GetCode(err))
}

func (s *CacheSuite) TestGetOrSetCacheWriteFailureStillReturnsValue() {
	loaded := cachedReport{Score: 10}
	data, err := json.Marshal(loaded)
	s.Require().NoError(err)

	s.mock.ExpectGet("test:report:p-6").RedisNil()
	s.mock.ExpectSet("test:report:p-6", data, time.Minute).SetErr(errors.New(errors.ErrCodeCacheError, "write failed"))

	var got cachedReport
	err = s.cache.GetOrSet(context.Background(), "report:p-6", &got, time.Minute,
		func(context.Context) (interface{}, error) { return loaded, nil })
	s.Require().NoError(err)
	s.Equal(loaded, got)
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func TestNopCache(t *testing.T) {
	cache := NewNopCache()
	ctx := context.Background()

	var got cachedReport
	err := cache.Get(ctx, "anything", &got)
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "anything", cachedReport{Score: 1}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "anything"))

	calls := 0
	err = cache.GetOrSet(ctx, "report", &got, time.Minute,
		func(context.Context) (interface{}, error) {
			calls++
			return cachedReport{Score: 77.7, Status: "completed"}, nil
		})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, 77.7, got.Score)

	// reads still miss after a write
	err = cache.Get(ctx, "report", &got)
	require.ErrorIs(t, err, ErrCacheMiss)
}
