package content

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// lockTable hands out one asynchronous mutex per resource path. Locks
// are created on first use; concurrent first acquirers for the same
// unseen path share a single lock. Entries are reference counted and
// removed once no caller holds or waits on them, so the table does not
// grow with the number of distinct paths ever seen.
//
// Locks are keyed by path rather than by the full cache Key, so two
// different-typed loads of one path serialize against each other. See
// DESIGN.md for the reasoning.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*pathLock)}
}

// acquire suspends until the lock for path is free and returns a
// release function. Release is idempotent. When ctx is already done,
// acquire fails immediately without touching the lock.
func (t *lockTable) acquire(ctx context.Context, path string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	l, ok := t.locks[path]
	if !ok {
		l = &pathLock{sem: semaphore.NewWeighted(1)}
		t.locks[path] = l
	}
	l.refs++
	t.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		t.unref(path, l)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.sem.Release(1)
			t.unref(path, l)
		})
	}, nil
}

func (t *lockTable) unref(path string, l *pathLock) {
	t.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(t.locks, path)
	}
	t.mu.Unlock()
}

func (t *lockTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
