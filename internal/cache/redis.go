package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore keeps entries in Redis for deployments where several instances
// share one cache. Entries carry their own stored-at timestamp and the TTL is
// applied on read, exactly like the disk store, so switching backends never
// changes freshness behaviour.
type RedisStore struct {
	rc     *redis.Client
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewRedisStore(addr string, logger *zap.SugaredLogger) *RedisStore {
	return &RedisStore{
		rc:     redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
		now:    time.Now,
	}
}

func (s *RedisStore) Get(key string, ttl time.Duration) (json.RawMessage, bool) {
	raw, err := s.rc.Get(context.Background(), key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warnf("redis cache read failed for %v: %v", key, err)
		}
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warnf("malformed redis cache entry %v treated as miss: %v", key, err)
		return nil, false
	}

	if s.now().Sub(time.Unix(env.StoredAt, 0)) > ttl {
		return nil, false
	}
	return env.Payload, true
}

func (s *RedisStore) Put(key string, payload json.RawMessage) {
	raw, err := json.Marshal(envelope{StoredAt: s.now().Unix(), Payload: payload})
	if err != nil {
		s.logger.Warnf("redis cache marshal failed for %v: %v", key, err)
		return
	}
	if err := s.rc.Set(context.Background(), key, raw, 0).Err(); err != nil {
		s.logger.Warnf("redis cache write failed for %v: %v", key, err)
	}
}
