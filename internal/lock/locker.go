package lock

import (
	"context"
	"sync"
	"time"
)

// Locker serializes check-then-act sequences that span processes: appointment
// number assignment per tenant+day and recurrence expansion per template.
type Locker interface {
	// Acquire blocks until the key lock is held or ctx is done, and returns a
	// release function.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// LocalLocker is an in-process Locker for single-node deployments and tests.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.Lock()
	return m.Unlock, nil
}
