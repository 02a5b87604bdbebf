package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestMemoryRateLimit(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1000, 0)}

	rl := NewMemory(3, time.Second)
	rl.now = clock.now
	rl.lastCheck = clock.t.UnixNano()

	for i := 0; i < 3; i++ {
		assert.False(t, rl.Limit(ctx), "call %d", i)
	}
	assert.True(t, rl.Limit(ctx))

	rl.Undo()
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))

	// 三分之一秒恢复一次
	clock.t = clock.t.Add(time.Second/3 + time.Nanosecond)
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))

	// 长时间闲置不会超过上限
	clock.t = clock.t.Add(time.Hour)
	for i := 0; i < 3; i++ {
		assert.False(t, rl.Limit(ctx))
	}
	assert.True(t, rl.Limit(ctx))

	rl.UpdateRate(1)
	clock.t = clock.t.Add(time.Hour)
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))
}

func TestRedisRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	rl := NewRedis(client, "test:rl", 2, time.Minute)
	assert.False(t, rl.Limit(ctx))
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))
	assert.True(t, mr.Exists("test:rl"))

	rl.UpdateRate(3)
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))
}

func TestKeyed(t *testing.T) {
	ctx := context.Background()

	k := NewKeyed(Config{Count: 2, Duration: time.Minute}, nil)
	assert.False(t, k.Limit(ctx, "alice"))
	assert.False(t, k.Limit(ctx, "alice"))
	assert.True(t, k.Limit(ctx, "alice"))

	// 不同的键互不影响
	assert.False(t, k.Limit(ctx, "bob"))
	assert.Equal(t, 2, k.Len())
}

func TestKeyed_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	// 两个实例共享 Redis 计数
	a := NewKeyed(Config{Count: 2, Duration: time.Minute, Redis: true}, client)
	b := NewKeyed(Config{Count: 2, Duration: time.Minute, Redis: true}, client)

	assert.False(t, a.Limit(ctx, "carol"))
	assert.False(t, b.Limit(ctx, "carol"))
	assert.True(t, a.Limit(ctx, "carol"))
	assert.True(t, mr.Exists(redisKeyPrefix+"carol"))
}

func TestKeyed_Defaults(t *testing.T) {
	k := NewKeyed(Config{Redis: true}, nil)
	assert.Equal(t, DefaultConfig().Count, k.cfg.Count)
	assert.Equal(t, DefaultConfig().Duration, k.cfg.Duration)
	assert.False(t, k.cfg.Redis)
}
