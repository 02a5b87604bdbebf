package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisRateLimit 基于有序集合的滑动窗口，多个实例共享计数
type RedisRateLimit struct {
	rdb      redis.Cmdable
	key      string
	rate     int
	duration time.Duration
}

// NewRedis duration 内最多 rate 次
func NewRedis(rdb redis.Cmdable, key string, rate int, duration time.Duration) *RedisRateLimit {
	if rate < 1 {
		rate = 1
	}
	if duration < 1 {
		duration = time.Second
	}
	return &RedisRateLimit{
		rdb:      rdb,
		key:      key,
		rate:     rate,
		duration: duration,
	}
}

// Limit 超过限流返回 true，Redis 出错时放行
func (rl *RedisRateLimit) Limit(ctx context.Context) bool {
	now := time.Now()
	windowStart := now.Add(-rl.duration)

	pipe := rl.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, rl.key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	count := pipe.ZCard(ctx, rl.key)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", rl.key).Msg("ratelimit check failed, allowing")
		return false
	}
	if count.Val() >= int64(rl.rate) {
		return true
	}

	pipe = rl.rdb.Pipeline()
	pipe.ZAdd(ctx, rl.key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, rl.key, rl.duration+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", rl.key).Msg("ratelimit record failed")
	}
	return false
}

// UpdateRate 修改频率
func (rl *RedisRateLimit) UpdateRate(rate int) {
	rl.rate = max(rate, 1)
}
