// Package lock provides mutual exclusion scoped to a string key, used to
// serialize check-then-write sequences (one booking at a time per doctor).
package lock

import (
	"context"
	"sync"
)

type Keyed struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewKeyed() *Keyed {
	return &Keyed{slots: make(map[string]chan struct{})}
}

// Acquire blocks until the key's lock is held or ctx is done. On success it
// returns a release func that must be called exactly once.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	ch, ok := k.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.slots[key] = ch
	}
	k.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
