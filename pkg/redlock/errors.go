package redlock

import "errors"

var (
	// ErrFailedToAcquireLock 重试用尽仍未拿到锁
	ErrFailedToAcquireLock = errors.New("redlock: failed to acquire lock after retries")
	// ErrLockNotHeld 锁不属于当前实例或已过期
	ErrLockNotHeld = errors.New("redlock: lock not held or already expired")
	// ErrInvalidArguments 参数无效
	ErrInvalidArguments = errors.New("redlock: invalid arguments")
)
