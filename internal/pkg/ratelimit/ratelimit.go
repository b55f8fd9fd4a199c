// Package ratelimit throttles the unauthenticated auth endpoints. The redis
// limiter shares a token bucket across instances; the local limiter is the
// single-process fallback when no redis is configured.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter answers whether one request identified by key may proceed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

if rate <= 0 or burst <= 0 then
  return 1
end

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
local refill = (delta * rate) / 1000.0
tokens = math.min(burst, tokens + refill)

local allowed = tokens >= 1
if allowed then
  tokens = tokens - 1
end

redis.call("HMSET", key, "tokens", tokens, "ts", now)
redis.call("PEXPIRE", key, math.ceil((burst / rate) * 1000.0 * 2))

return allowed and 1 or 0
`

type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	rate   float64
	burst  float64
	script *redis.Script
}

func NewRedisLimiter(rdb *redis.Client, prefix string, ratePerSec float64, burst int) *RedisLimiter {
	if prefix == "" {
		prefix = "reviewhub:ratelimit"
	}
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		rate:   ratePerSec,
		burst:  float64(burst),
		script: redis.NewScript(tokenBucketLua),
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r == nil || r.rate <= 0 || r.burst <= 0 {
		return true, nil
	}

	now := time.Now().UnixMilli()
	bucketKey := r.prefix + ":" + key
	res, err := r.script.Run(ctx, r.rdb, []string{bucketKey}, r.rate, r.burst, now).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit eval: %w", err)
	}

	return toInt64(res) == 1, nil
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}

// LocalLimiter keeps one x/time token bucket per key in memory.
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rate    rate.Limit
	burst   int
}

func NewLocalLimiter(ratePerSec float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		buckets: make(map[string]*rate.Limiter),
		rate:    rate.Limit(ratePerSec),
		burst:   burst,
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.rate <= 0 || l.burst <= 0 {
		return true, nil
	}

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(l.rate, l.burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow(), nil
}
