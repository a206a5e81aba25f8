package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexExcludesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Lock(ctx, []string{"a", "b"})
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected exclusive access, saw %d holders at once", maxSeen)
	}
	if len(m.slots) != 0 {
		t.Fatalf("expected slots to be released, %d left", len(m.slots))
	}
}

func TestKeyedMutexDisjointKeys(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	releaseA, err := m.Lock(ctx, []string{"a"})
	if err != nil {
		t.Fatalf("lock a: %v", err)
	}
	defer releaseA()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	releaseB, err := m.Lock(ctx, []string{"b"})
	if err != nil {
		t.Fatalf("lock b should not wait for a: %v", err)
	}
	releaseB()
}

func TestKeyedMutexContextCancel(t *testing.T) {
	m := NewKeyedMutex()

	release, err := m.Lock(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.Lock(ctx, []string{"b", "a"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// b must have been given back when a timed out.
	releaseB, err := m.Lock(context.Background(), []string{"b"})
	if err != nil {
		t.Fatalf("lock b: %v", err)
	}
	releaseB()
	release()

	if len(m.slots) != 0 {
		t.Fatalf("expected no slots left, got %d", len(m.slots))
	}
}

func TestKeyedMutexDuplicateKeysAndDoubleRelease(t *testing.T) {
	m := NewKeyedMutex()

	release, err := m.Lock(context.Background(), []string{"a", "a"})
	if err != nil {
		t.Fatalf("duplicate keys should not self-deadlock: %v", err)
	}
	release()
	release()

	again, err := m.Lock(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	again()
}
