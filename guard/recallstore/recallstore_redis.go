package recallstore

import (
	"context"
	"errors"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// RedisRecallStore delegates the TTL bound to redis key expiry. Entries
// survive a process restart, which the in-memory store cannot offer.
type RedisRecallStore struct {
	Data *cache.Cache
}

var _ RecallStore = (*RedisRecallStore)(nil)

func NewRedisRecallStore(redisURL string) (*RedisRecallStore, error) {
	ctx := context.Background()
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	data := cache.New(&cache.Options{
		Redis: rdb,
	})
	return &RedisRecallStore{Data: data}, nil
}

func recallCacheKey(messageID string) string {
	return "recall/" + messageID
}

func (s *RedisRecallStore) Record(ctx context.Context, messageID string, entry Entry) error {
	return s.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   recallCacheKey(messageID),
		Value: &entry,
		TTL:   TTL,
	})
}

func (s *RedisRecallStore) Consume(ctx context.Context, messageID string) (*Entry, error) {
	key := recallCacheKey(messageID)
	var entry Entry
	err := s.Data.Get(ctx, key, &entry)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.Data.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}
	return &entry, nil
}
