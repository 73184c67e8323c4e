package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/pourbaix-engine/pkg/errors"
	ptypes "github.com/turtacn/pourbaix-engine/pkg/types/pourbaix"
)

type CacheTestSuite struct {
	suite.Suite
	client *Client
	mock   redismock.ClientMock
	cache  Cache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.client = NewClientFrom(db, logging.NewNopLogger())
	s.cache = NewRedisCache(s.client, logging.NewNopLogger(),
		WithPrefix("test:"), WithDefaultTTL(10*time.Minute), WithTTLJitter(0))
}

func (s *CacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func snapshot() ptypes.DiagramSnapshot {
	return ptypes.DiagramSnapshot{
		Key:      "abc",
		Elements: []string{"Fe"},
		Domains:  []ptypes.Domain{{Entry: "Fe(s)", Area: 72}},
	}
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := snapshot()
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:diagram:abc").SetVal(string(data))

	var dest ptypes.DiagramSnapshot
	s.Require().NoError(s.cache.Get(context.Background(), "diagram:abc", &dest))
	s.Equal(val.Domains, dest.Domains)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k").RedisNil()

	var dest ptypes.DiagramSnapshot
	err := s.cache.Get(context.Background(), "k", &dest)
	s.Equal(ErrCacheMiss, err)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *CacheTestSuite) TestGet_Corrupt() {
	s.mock.ExpectGet("test:k").SetVal("{not json")

	var dest ptypes.DiagramSnapshot
	err := s.cache.Get(context.Background(), "k", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestGet_RedisError() {
	s.mock.ExpectGet("test:k").SetErr(errors.New("connection reset"))

	var dest ptypes.DiagramSnapshot
	err := s.cache.Get(context.Background(), "k", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestSet_UsesDefaultTTL() {
	val := snapshot()
	data, _ := json.Marshal(val)
	s.mock.ExpectSet("test:k", data, 10*time.Minute).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "k", val, 0))
}

func (s *CacheTestSuite) TestSet_Unserialisable() {
	err := s.cache.Set(context.Background(), "k", make(chan int), time.Minute)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:k1", "test:k2").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "k1", "k2"))
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheTestSuite) TestGetOrSet_Hit() {
	val := snapshot()
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k").SetVal(string(data))

	var dest ptypes.DiagramSnapshot
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		s.Fail("loader must not run on a hit")
		return nil, nil
	})
	s.NoError(err)
	s.Equal("abc", dest.Key)
}

func (s *CacheTestSuite) TestGetOrSet_MissLoadsAndStores() {
	val := snapshot()
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k").RedisNil()
	s.mock.ExpectSet("test:k", data, time.Minute).SetVal("OK")

	var dest ptypes.DiagramSnapshot
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return val, nil
	})
	s.NoError(err)
	s.Equal(val.Domains, dest.Domains)
}

func (s *CacheTestSuite) TestGetOrSet_StoreFailureStillReturnsValue() {
	val := snapshot()
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k").RedisNil()
	s.mock.ExpectSet("test:k", data, time.Minute).SetErr(errors.New("read only replica"))

	var dest ptypes.DiagramSnapshot
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return val, nil
	})
	s.NoError(err)
	s.Equal("abc", dest.Key)
}

func (s *CacheTestSuite) TestGetOrSet_LoaderError() {
	s.mock.ExpectGet("test:k").RedisNil()
	boom := pkgerrors.New(pkgerrors.ErrCodeNoEntries, "no entries supplied")

	var dest ptypes.DiagramSnapshot
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeNoEntries))
}

func (s *CacheTestSuite) TestDeleteByPrefix() {
	s.mock.ExpectScan(0, "test:diagram:*", 100).SetVal([]string{"test:diagram:a", "test:diagram:b"}, 7)
	s.mock.ExpectDel("test:diagram:a", "test:diagram:b").SetVal(2)
	s.mock.ExpectScan(7, "test:diagram:*", 100).SetVal([]string{"test:diagram:c"}, 0)
	s.mock.ExpectDel("test:diagram:c").SetVal(1)

	n, err := s.cache.DeleteByPrefix(context.Background(), "diagram:")
	s.NoError(err)
	s.Equal(int64(3), n)
}

func (s *CacheTestSuite) TestPing() {
	s.mock.ExpectPing().SetVal("PONG")
	s.NoError(s.cache.Ping(context.Background()))
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestClient_Closed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewClientFrom(db, nil)
	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, client.Ping(context.Background()))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	ctx := context.Background()
	assert.Equal(t, ErrClientClosed, client.Ping(ctx))
	assert.ErrorIs(t, client.Get(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Set(ctx, "k", "v", 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Del(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Exists(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Scan(ctx, 0, "*", 10).Err(), ErrClientClosed)
}

//Personal.AI order the ending
