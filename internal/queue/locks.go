package queue

import "sync"

// itemLocks serializes transitions per queue item id. Operations on
// different ids proceed in parallel; a second transition on the same id
// waits for the in-flight one instead of silently overwriting it. Entries
// are refcounted and evicted once the last holder releases, so the map does
// not grow with the id space.
type itemLocks struct {
	locks map[string]*itemLock
	mu    sync.Mutex
}

type itemLock struct {
	mu   sync.Mutex
	refs int
}

func newItemLocks() *itemLocks {
	return &itemLocks{locks: make(map[string]*itemLock)}
}

// acquire blocks until the per-item lock is held and returns the release
// function.
func (l *itemLocks) acquire(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &itemLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
