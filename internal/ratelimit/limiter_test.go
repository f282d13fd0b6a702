package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T) (*miniredis.Miniredis, *Limiter) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, NewLimiter(rdb, "rl")
}

func TestAllow_BlocksAfterLimit(t *testing.T) {
	_, l := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "guest:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := l.Allow(ctx, "guest:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
}

func TestAllow_WindowResets(t *testing.T) {
	mr, l := setupLimiter(t)
	ctx := context.Background()

	_, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	res, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	mr.FastForward(time.Minute + time.Second)

	res, err = l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	mr, l := setupLimiter(t)
	ctx := context.Background()

	_, err := l.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	res, err := l.Allow(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.True(t, mr.Exists("rl:a"))
	assert.True(t, mr.Exists("rl:b"))
}

func TestAllow_RejectsBadArguments(t *testing.T) {
	_, l := setupLimiter(t)
	_, err := l.Allow(context.Background(), "k", 0, time.Minute)
	assert.Error(t, err)
}
