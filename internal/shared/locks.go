package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PayrollLockKey builds redis keys for payroll run critical sections.
func PayrollLockKey(runID int64) string {
	return fmt.Sprintf("payroll:run:%d:lock", runID)
}

// RedisLock is a best-effort SETNX lock with expiry, used to keep a
// payroll run from being processed twice concurrently.
type RedisLock struct {
	client *redis.Client
}

// NewRedisLock constructs a RedisLock.
func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

// Acquire attempts to take the lock, returning false when already held.
func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if l == nil || l.client == nil {
		return false, fmt.Errorf("redis lock not configured")
	}
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

// Release drops the lock.
func (l *RedisLock) Release(ctx context.Context, key string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, key).Err()
}
