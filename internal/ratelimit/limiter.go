// Package ratelimit caps insight requests per user with a Redis fixed window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "nwhacks:ratelimit:"

// INCR the window counter, start the window on the first hit, report the
// count and the time left in the window.
const fixedWindowScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {current, ttl}
`

type Result struct {
	Allowed    bool
	Count      int
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	script *redis.Script
}

// Connect opens a client for addr and checks it with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		script: redis.NewScript(fixedWindowScript),
	}
}

// Allow counts one request against key.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	raw, err := l.script.Run(ctx, l.client, []string{keyPrefix + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return Result{}, fmt.Errorf("fixed window script failed: %w", err)
	}
	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return Result{}, fmt.Errorf("invalid script result %v", raw)
	}
	count, _ := values[0].(int64)
	ttl, _ := values[1].(int64)

	res := Result{
		Allowed:   int(count) <= l.limit,
		Count:     int(count),
		Limit:     l.limit,
		Remaining: max(0, l.limit-int(count)),
	}
	if !res.Allowed && ttl > 0 {
		res.RetryAfter = time.Duration(ttl) * time.Millisecond
	}
	return res, nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
