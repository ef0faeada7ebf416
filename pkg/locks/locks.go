package locks

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Keyed hands out one lock per aggregate key so unrelated aggregates proceed
// concurrently while operations on the same aggregate serialize. Acquisition
// honors the caller's context deadline; a timed-out waiter leaves no trace.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[string]*entry)}
}

// Acquire blocks until the key's lock is held or ctx is done. On success the
// returned release function must be called exactly once.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		k.put(key, e)
		return nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			e.sem.Release(1)
			k.put(key, e)
		})
	}
	return release, nil
}

func (k *Keyed) put(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs <= 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}

// OrderKey names the lock guarding one order aggregate.
func OrderKey(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

// ProductKey names the lock guarding one product and its placement set.
func ProductKey(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}
