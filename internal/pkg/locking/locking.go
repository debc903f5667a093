// Package locking serializes read-modify-write cycles on shared rows.
// Reward grants against one profile must not interleave or concurrent
// triggers silently drop updates; callers acquire the profile's lock for
// the whole load-compute-persist span.
package locking

import (
	"context"
	"sync"

	"github.com/go-redsync/redsync/v4"
)

// RedsyncLocker is the production Locker, backed by redis so the
// guarantee holds across API replicas.
type RedsyncLocker struct {
	rs *redsync.Redsync
}

func NewRedsyncLocker(rs *redsync.Redsync) *RedsyncLocker {
	return &RedsyncLocker{rs}
}

func (l *RedsyncLocker) Acquire(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(key)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	return func() {
		//nolint:errcheck
		mutex.UnlockContext(ctx)
	}, nil
}

// LocalLocker keeps the same contract in-process, for tests and
// single-node runs without redis.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: map[string]*sync.Mutex{}}
}

func (l *LocalLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
