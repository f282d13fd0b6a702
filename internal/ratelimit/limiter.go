// Package ratelimit implements a Redis fixed-window counter shared by every
// API instance.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The first hit of a window creates the key and arms its expiry; later hits
// only increment. Returns {count, pttl}.
var fixedWindow = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return { count, ttl }
`)

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter struct {
	rdb    *redis.Client
	prefix string
}

func NewLimiter(rdb *redis.Client, prefix string) *Limiter {
	return &Limiter{rdb: rdb, prefix: prefix}
}

// Allow counts one request for key in the current window and reports
// whether it fits within limit.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit < 1 || window <= 0 {
		return Result{}, fmt.Errorf("ratelimit: invalid limit %d / window %s", limit, window)
	}

	vals, err := fixedWindow.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script result %v", vals)
	}

	count, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond
	res := Result{Allowed: count <= limit, Limit: limit, Remaining: limit - count}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res, nil
}
