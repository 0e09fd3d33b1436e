package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// KeyLock provides mutual exclusion per item ID. Holders of different keys
// never contend; waiters for the same key queue on a one-slot channel so
// acquisition is abortable through the context without side effects.
type KeyLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// NewKeyLock creates an empty lock table
func NewKeyLock() *KeyLock {
	return &KeyLock{
		locks: make(map[uuid.UUID]*lockEntry),
	}
}

// Acquire blocks until the key's lock is held or ctx is done. On success it
// returns a release function that is safe to call more than once; on
// failure it returns the context error and holds nothing.
func (l *KeyLock) Acquire(ctx context.Context, key uuid.UUID) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
		var once sync.Once
		release := func() {
			once.Do(func() {
				<-entry.ch
				l.unref(key, entry)
			})
		}
		return release, nil
	case <-ctx.Done():
		l.unref(key, entry)
		return nil, ctx.Err()
	}
}

// unref drops a reference, removing the entry once nobody holds or waits on it
func (l *KeyLock) unref(key uuid.UUID, entry *lockEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}
