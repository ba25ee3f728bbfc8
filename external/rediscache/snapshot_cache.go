package rediscache

import (
	"context"
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stxrain/go-stx-rain/entities"
	"time"
)

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// SnapshotCache keeps the latest poll update under a key and fans it out on a pub/sub channel.
type SnapshotCache struct {
	rdb     RedisClient
	key     string
	channel string
	ttl     time.Duration
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewSnapshotCache(rdb RedisClient, key, channel string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		rdb:     rdb,
		key:     key,
		channel: channel,
		ttl:     ttl,
	}
}

func (sc *SnapshotCache) PublishPoll(ctx context.Context, update entities.PollUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return errors.Wrap(err, "marshalling poll update")
	}

	err = sc.rdb.Set(ctx, sc.key, payload, sc.ttl).Err()
	if err != nil {
		return errors.Wrapf(err, "setting snapshot key [%s]", sc.key)
	}

	if sc.channel == "" {
		return nil
	}
	err = sc.rdb.Publish(ctx, sc.channel, payload).Err()
	if err != nil {
		return errors.Wrapf(err, "publishing to channel [%s]", sc.channel)
	}

	return nil
}
