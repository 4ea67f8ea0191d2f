package siteconfig

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache holds recently read configuration documents. Every kind carries a
// version that Invalidate bumps; Set only stores a value loaded at the current
// version, so a read racing a write cannot put the older document back.
type Cache interface {
	// Get reports a hit, or on a miss the version to hand to Set.
	Get(ctx context.Context, kind Kind, out interface{}) (hit bool, version int64, err error)
	Set(ctx context.Context, kind Kind, v interface{}, version int64) error
	Invalidate(ctx context.Context, kind Kind) error
}

const cacheKeyPrefix = "siteconfig:"

// RedisCache stores documents as JSON strings under "siteconfig:<kind>" and
// their versions under "siteconfig:<kind>:version".
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func valueKey(kind Kind) string   { return cacheKeyPrefix + string(kind) }
func versionKey(kind Kind) string { return cacheKeyPrefix + string(kind) + ":version" }

func (c *RedisCache) Get(ctx context.Context, kind Kind, out interface{}) (bool, int64, error) {
	vals, err := c.client.MGet(ctx, valueKey(kind), versionKey(kind)).Result()
	if err != nil {
		return false, 0, err
	}
	version, err := parseVersion(vals[1])
	if err != nil {
		return false, 0, err
	}
	data, ok := vals[0].(string)
	if !ok {
		return false, version, nil
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, version, err
	}
	return true, version, nil
}

func (c *RedisCache) Set(ctx context.Context, kind Kind, v interface{}, version int64) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey(kind)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		n, err := parseVersion(current)
		if err != nil {
			return err
		}
		if n != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, valueKey(kind), data, c.ttl)
			return nil
		})
		return err
	}, versionKey(kind))
	if errors.Is(err, redis.TxFailedErr) {
		// invalidated while we were storing; the next read reloads
		return nil
	}
	return err
}

func (c *RedisCache) Invalidate(ctx context.Context, kind Kind) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(kind))
		pipe.Del(ctx, valueKey(kind))
		return nil
	})
	return err
}

func parseVersion(v interface{}) (int64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case string:
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	default:
		return 0, errors.New("unexpected cache version type")
	}
}
