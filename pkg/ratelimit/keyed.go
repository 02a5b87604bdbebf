package ratelimit

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Keyed 按键（通常是玩家ID）分配独立的限流器
// 闲置的限流器随 LRU 过期回收
type Keyed struct {
	cfg Config
	rdb redis.Cmdable

	mu       sync.Mutex
	limiters *expirable.LRU[string, RateLimiter]
}

// NewKeyed rdb 为 nil 或 cfg.Redis 为 false 时使用进程内限流
func NewKeyed(cfg Config, rdb redis.Cmdable) *Keyed {
	if cfg.Count < 1 {
		cfg.Count = defaultCount
	}
	if cfg.Duration <= 0 {
		cfg.Duration = defaultDuration
	}
	if rdb == nil {
		cfg.Redis = false
	}
	return &Keyed{
		cfg:      cfg,
		rdb:      rdb,
		limiters: expirable.NewLRU[string, RateLimiter](defaultSize, nil, 2*cfg.Duration),
	}
}

// Limit key 超过限制时返回 true
func (k *Keyed) Limit(ctx context.Context, key string) bool {
	if k.get(key).Limit(ctx) {
		log.Ctx(ctx).Debug().Str("key", key).Int("count", k.cfg.Count).Dur("duration", k.cfg.Duration).Msg("rate limited")
		return true
	}
	return false
}

func (k *Keyed) get(key string) RateLimiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if l, ok := k.limiters.Get(key); ok {
		return l
	}
	var l RateLimiter
	if k.cfg.Redis {
		l = NewRedis(k.rdb, redisKeyPrefix+key, k.cfg.Count, k.cfg.Duration)
	} else {
		l = NewMemory(k.cfg.Count, k.cfg.Duration)
	}
	k.limiters.Add(key, l)
	return l
}

// Len 当前持有的限流器数量
func (k *Keyed) Len() int {
	return k.limiters.Len()
}
