package ratelimit

import (
	"context"
	"time"
)

const (
	defaultCount    = 20
	defaultDuration = 10 * time.Second
	defaultSize     = 4096
	redisKeyPrefix  = "contree:ratelimit:"
)

// RateLimiter 限流器，超过限制时 Limit 返回 true
type RateLimiter interface {
	Limit(ctx context.Context) bool
}

// Config 每个键 Duration 内最多 Count 次
type Config struct {
	Count    int           `mapstructure:"count"`
	Duration time.Duration `mapstructure:"duration"`
	Redis    bool          `mapstructure:"redis"` // 多实例部署时共享计数
}

// DefaultConfig 默认每人 10 秒内 20 个动作
func DefaultConfig() Config {
	return Config{Count: defaultCount, Duration: defaultDuration}
}
