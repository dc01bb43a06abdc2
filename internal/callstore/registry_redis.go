package callstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisActiveKeyPrefix = "active_call:"

// RedisRegistry keeps the active-call index in Redis so a restarted process
// still sees calls answered by the previous one. Keys carry a TTL as a
// second line of defense next to the staleness sweep.
type RedisRegistry struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRegistry(rdb *redis.Client, ttl time.Duration) *RedisRegistry {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisRegistry{rdb: rdb, ttl: ttl}
}

func (r *RedisRegistry) Put(ctx context.Context, call ActiveCall) error {
	data, err := json.Marshal(call)
	if err != nil {
		return fmt.Errorf("%w: encode active call: %v", ErrStorage, err)
	}
	if err := r.rdb.Set(ctx, redisActiveKeyPrefix+call.SessionKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", ErrStorage, err)
	}
	return nil
}

func (r *RedisRegistry) Remove(ctx context.Context, sessionKey string) error {
	if err := r.rdb.Del(ctx, redisActiveKeyPrefix+sessionKey).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", ErrStorage, err)
	}
	return nil
}

func (r *RedisRegistry) Snapshot(ctx context.Context) ([]ActiveCall, error) {
	out := []ActiveCall{}
	iter := r.rdb.Scan(ctx, 0, redisActiveKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.rdb.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return nil, fmt.Errorf("%w: redis get: %v", ErrStorage, err)
		}
		var c ActiveCall
		if err := json.Unmarshal(data, &c); err != nil {
			continue // skip undecodable entries rather than fail the read path
		}
		out = append(out, c)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: redis scan: %v", ErrStorage, err)
	}
	return out, nil
}
