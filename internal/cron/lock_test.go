package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryLockStore struct {
	values map[string]string
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryLockStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryLockStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryLockStore) LockKey(name string) string { return "mm:lock:" + name }

func TestRedisLockerIsExclusivePerJob(t *testing.T) {
	store := &memoryLockStore{values: map[string]string{}}
	locker, err := NewRedisLocker(store, time.Minute)
	if err != nil {
		t.Fatalf("new locker: %v", err)
	}
	ctx := context.Background()

	release, ok, err := locker.Acquire(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := locker.Acquire(ctx, "a"); ok {
		t.Fatal("expected second acquire of the same job to fail")
	}
	if _, ok, _ := locker.Acquire(ctx, "b"); !ok {
		t.Fatal("expected a different job to be lockable")
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, ok, _ := locker.Acquire(ctx, "a"); !ok {
		t.Fatal("expected job to be lockable after release")
	}
}

func TestRedisLockerReleaseKeepsForeignOwner(t *testing.T) {
	store := &memoryLockStore{values: map[string]string{}}
	locker, _ := NewRedisLocker(store, time.Minute)
	ctx := context.Background()

	release, ok, err := locker.Acquire(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("acquire: ok=%v err=%v", ok, err)
	}
	store.values["mm:lock:a"] = "someone-else"

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["mm:lock:a"] != "someone-else" {
		t.Fatal("release removed a lock it no longer owned")
	}
}
