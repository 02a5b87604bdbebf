package redlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// 值匹配才删除
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

// 值匹配才续期
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
    return 0
end
`)

// Locker 单个键上的分布式锁
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) (bool, error)
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
	Value() string
	Key() string
}

// RedisLocker 按键生成锁，牌桌服务用它串行化同一张桌上的动作
type RedisLocker struct {
	client   redis.Cmdable
	defaults LockOptions
}

type lock struct {
	key     string
	value   string
	client  redis.Cmdable
	options LockOptions
}

// NewRedLock client 可以是 redis.NewClient 或 redis.NewClusterClient 的返回值
func NewRedLock(client redis.Cmdable, opts ...Option) (*RedisLocker, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: nil redis client", ErrInvalidArguments)
	}
	defaults := defaultLockOptions()
	for _, opt := range opts {
		opt(&defaults)
	}
	return &RedisLocker{client: client, defaults: defaults}, nil
}

// Locker 返回 key 上的锁，opts 覆盖默认选项
func (rl *RedisLocker) Locker(key string, opts ...Option) (Locker, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty lock key", ErrInvalidArguments)
	}
	o := rl.defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &lock{
		key:     o.Prefix + key,
		value:   uuid.NewString(),
		client:  rl.client,
		options: o,
	}, nil
}

// WithLock 持锁执行 fn，fn 返回后释放
func (rl *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error, opts ...Option) error {
	l, err := rl.Locker(key, opts...)
	if err != nil {
		return err
	}
	if err := l.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		// 锁过期只记日志，fn 的结果以返回值为准
		if _, err := l.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", l.Key()).Msg("unlock failed")
		}
	}()
	return fn(ctx)
}

// TryLock 不重试，SET NX PX
func (l *lock) TryLock(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, l.value, l.options.TTL).Result()
	if err != nil && err != redis.Nil {
		log.Ctx(ctx).Error().Err(err).Str("key", l.key).Msg("failed to setnx for lock")
		return false, err
	}
	if acquired {
		log.Ctx(ctx).Trace().Str("key", l.key).Dur("ttl", l.options.TTL).Msg("lock acquired")
	}
	return acquired, nil
}

// Lock 带重试获取锁，直到成功、重试用尽或 ctx 取消
func (l *lock) Lock(ctx context.Context) error {
	for i := 0; i <= l.options.MaxRetries; i++ {
		acquired, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}
		if i == l.options.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.options.RetryDelay):
		}
	}

	log.Ctx(ctx).Warn().Str("key", l.key).Int("retries", l.options.MaxRetries).Msg("failed to acquire lock")
	return ErrFailedToAcquireLock
}

// Unlock 只释放自己持有的锁，不属于自己时返回 ErrLockNotHeld
func (l *lock) Unlock(ctx context.Context) (bool, error) {
	n, err := unlockScript.Run(ctx, l.client, []string{l.key}, l.value).Int64()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", l.key).Msg("failed to run unlock script")
		return false, err
	}
	if n != 1 {
		return false, ErrLockNotHeld
	}
	log.Ctx(ctx).Trace().Str("key", l.key).Msg("lock released")
	return true, nil
}

// Extend 续期，长时间操作中防止锁过期
func (l *lock) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, l.client, []string{l.key}, l.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	if n != 1 {
		return false, ErrLockNotHeld
	}
	return true, nil
}

func (l *lock) Value() string {
	return l.value
}

func (l *lock) Key() string {
	return l.key
}
