package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mandlimart/mandlimart-backend/pkg/instance"
)

const defaultLockTTL = 5 * time.Minute

// Locker grants exclusive ownership of a named job across worker replicas.
// The returned release func is only non-nil when ok is true.
type Locker interface {
	Acquire(ctx context.Context, name string) (release func(context.Context) error, ok bool, err error)
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(name string) string
}

// RedisLocker stores one owner token per job key with a TTL so a crashed worker
// cannot hold a job forever.
type RedisLocker struct {
	store lockStore
	ttl   time.Duration
}

func NewRedisLocker(store lockStore, ttl time.Duration) (*RedisLocker, error) {
	if store == nil {
		return nil, errors.New("redis client required for job locks")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{store: store, ttl: ttl}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, name string) (func(context.Context) error, bool, error) {
	key := l.store.LockKey(name)
	owner := instance.GetID() + ":" + uuid.NewString()
	ok, err := l.store.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		return l.release(ctx, key, owner)
	}, true, nil
}

// release deletes key only while owner still holds it; an expired lock that another
// worker picked up is left alone.
func (l *RedisLocker) release(ctx context.Context, key, owner string) error {
	current, err := l.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if current != owner {
		return nil
	}
	if err := l.store.Del(ctx, key); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}
