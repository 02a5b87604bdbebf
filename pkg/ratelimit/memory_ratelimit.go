package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimit 进程内令牌桶，线程安全
// 配额以 纳秒*次数 计，每次调用消耗 unit
type MemoryRateLimit struct {
	mu  sync.Mutex
	now func() time.Time

	rate, allowance, max, unit uint64
	lastCheck                  int64
}

// NewMemory per 时间内最多 rate 次
func NewMemory(rate int, per time.Duration) *MemoryRateLimit {
	nano := uint64(per)
	if nano < 1 {
		nano = uint64(time.Second)
	}
	if rate < 1 {
		rate = 1
	}

	rl := &MemoryRateLimit{
		now:       time.Now,
		rate:      uint64(rate),
		allowance: uint64(rate) * nano,
		max:       uint64(rate) * nano,
		unit:      nano,
	}
	rl.lastCheck = rl.now().UnixNano()
	return rl
}

// UpdateRate 修改频率，已有配额截断到新上限
func (rl *MemoryRateLimit) UpdateRate(rate int) {
	if rate < 1 {
		rate = 1
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.rate = uint64(rate)
	rl.max = uint64(rate) * rl.unit
	rl.allowance = min(rl.allowance, rl.max)
}

// Limit 超过限流时返回 true
func (rl *MemoryRateLimit) Limit(_ context.Context) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now().UnixNano()
	if passed := now - rl.lastCheck; passed > 0 {
		rl.allowance = min(rl.allowance+uint64(passed)*rl.rate, rl.max)
	}
	rl.lastCheck = now

	if rl.allowance < rl.unit {
		return true
	}
	rl.allowance -= rl.unit
	return false
}

// Undo 返还上一次 Limit 消耗的配额
func (rl *MemoryRateLimit) Undo() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.allowance = min(rl.allowance+rl.unit, rl.max)
}
