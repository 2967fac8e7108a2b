package spamstore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisSpamPrefix string = "spam/"

// RedisSpamStore keeps each key's timestamps in a sorted set scored by unix
// milliseconds, so pruning is a single ZREMRANGEBYSCORE. Useful when the spam
// window should survive a process restart.
type RedisSpamStore struct {
	Client *redis.Client
}

var _ SpamStore = (*RedisSpamStore)(nil)

func NewRedisSpamStore(redisURL string) (*RedisSpamStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisSpamStore{Client: rdb}, nil
}

func (s *RedisSpamStore) Observe(ctx context.Context, groupID, userID string, now time.Time, window time.Duration, threshold int) (bool, error) {
	key := redisSpamPrefix + bucketKey(groupID, userID)
	nowMs := now.UnixMilli()
	cutoff := nowMs - window.Milliseconds()

	// append, prune, and count in a single round-trip
	multi := s.Client.Pipeline()
	multi.ZAdd(ctx, key, redis.Z{
		Score: float64(nowMs),
		// nanosecond member keeps same-millisecond observations distinct
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	multi.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
	card := multi.ZCard(ctx, key)
	multi.Expire(ctx, key, 2*window)
	if _, err := multi.Exec(ctx); err != nil {
		return false, err
	}

	if int(card.Val()) >= threshold {
		if err := s.Client.Del(ctx, key).Err(); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}
