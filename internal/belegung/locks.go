package belegung

import (
	"context"
	"sync"

	dErrors "domusvita/pkg/domain-errors"
)

// keyedLocks serializes mutations per key. Each key gets a one-slot channel
// semaphore; different keys proceed fully in parallel. Acquisition honors the
// context deadline so a stuck store never leaves a caller parked forever —
// the caller gets a retryable error and the lock stays releasable.
//
// The coordinator keeps one instance keyed by Zimmer and one keyed by Klient,
// always acquired in that order, so concurrent assignments for the same
// klient serialize even when they target rooms in different facilities.
type keyedLocks[K comparable] struct {
	mu    sync.Mutex
	locks map[K]chan struct{}
}

func newKeyedLocks[K comparable]() *keyedLocks[K] {
	return &keyedLocks[K]{locks: make(map[K]chan struct{})}
}

func (l *keyedLocks[K]) get(key K) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	return ch
}

// acquire blocks until the lock is free or the context expires. The returned
// release func must be called exactly once.
func (l *keyedLocks[K]) acquire(ctx context.Context, key K) (func(), error) {
	ch := l.get(key)
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable,
			"timed out waiting for belegung lock, retry")
	}
}
