// Package lock provides EmailLocker implementations.
package lock

import (
	"context"
	"sync"

	"signup/internal/domain/service"
	"signup/internal/errors"
)

// localLocker serialises callers per email inside one process. Each entry is
// a one-slot channel and is dropped once nobody holds or waits for it.
type localLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

type localEntry struct {
	slot chan struct{}
	refs int
}

// NewLocalLocker returns an in-process EmailLocker.
func NewLocalLocker() service.EmailLocker {
	return &localLocker{entries: make(map[string]*localEntry)}
}

func (l *localLocker) Lock(ctx context.Context, email string) (service.UnlockFunc, error) {
	entry := l.acquireEntry(email)

	select {
	case entry.slot <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(email, entry)

		return nil, errors.Wrap(ctx.Err(), "waiting for email lock")
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-entry.slot
			l.releaseEntry(email, entry)
		})
	}, nil
}

func (l *localLocker) acquireEntry(email string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[email]
	if !ok {
		entry = &localEntry{slot: make(chan struct{}, 1)}
		l.entries[email] = entry
	}
	entry.refs++

	return entry
}

func (l *localLocker) releaseEntry(email string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, email)
	}
}
