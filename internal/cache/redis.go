package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached flyers between server replicas. Rdb accepts a
// single-node, sentinel or cluster client.
type RedisStore struct {
	Rdb redis.UniversalClient
	// Prefix namespaces keys; defaults to "goflyer:".
	Prefix string
	// TTL of zero keeps entries until evicted by Redis.
	TTL time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects lazily; call Ping to verify reachability.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &RedisStore{Rdb: rdb, TTL: ttl}
}

func (s *RedisStore) key(k string) string {
	if s.Prefix == "" {
		return "goflyer:" + k
	}
	return s.Prefix + k
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Rdb.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.Rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	return s.Rdb.Set(ctx, s.key(key), data, s.TTL).Err()
}

func (s *RedisStore) Close() error {
	return s.Rdb.Close()
}
