package locks

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestKeyedSerializesSameKey(t *testing.T) {
	t.Parallel()

	k := NewKeyed()
	const workers = 8
	var counter, max, active int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := k.Acquire(context.Background(), OrderKey(7))
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer release()

			mu.Lock()
			active++
			if active > max {
				max = active
			}
			counter++
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}
	if max != 1 {
		t.Fatalf("same-key holders overlapped: max concurrency %d", max)
	}
}

func TestKeyedIndependentKeys(t *testing.T) {
	t.Parallel()

	k := NewKeyed()
	releaseA, err := k.Acquire(context.Background(), ProductKey(1))
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	releaseB, err := k.Acquire(ctx, ProductKey(2))
	if err != nil {
		t.Fatalf("unrelated key must not block: %v", err)
	}
	releaseB()
}

func TestKeyedAcquireTimeout(t *testing.T) {
	t.Parallel()

	k := NewKeyed()
	release, err := k.Acquire(context.Background(), OrderKey(3))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := k.Acquire(ctx, OrderKey(3)); err == nil {
		t.Fatal("expected acquisition to time out while the lock is held")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	k := NewKeyed()
	release, err := k.Acquire(context.Background(), OrderKey(9))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()
	release() // second call must be a no-op

	again, err := k.Acquire(context.Background(), OrderKey(9))
	if err != nil {
		t.Fatalf("re-acquire after release: %v", err)
	}
	again()
}
