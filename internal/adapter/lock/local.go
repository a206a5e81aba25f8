// Package lock provides in-process implementations of usecase.Locker.
package lock

import (
	"context"
	"sync"
)

// KeyedMutex serializes callers per key within one process. Keys are taken
// in the order given, so callers that sort their keys cannot deadlock.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch      chan struct{}
	waiters int
}

// NewKeyedMutex creates a new KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot)}
}

// Lock acquires every key or none. Duplicate keys are taken once.
func (m *KeyedMutex) Lock(ctx context.Context, keys []string) (func(), error) {
	held := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			m.unlock(held[i])
		}
	}

	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := m.lock(ctx, key); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (m *KeyedMutex) lock(ctx context.Context, key string) error {
	m.mu.Lock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.waiters++
	m.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		m.drop(key, s)
		m.mu.Unlock()
		return ctx.Err()
	}
}

func (m *KeyedMutex) unlock(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[key]
	if !ok {
		return
	}
	<-s.ch
	m.drop(key, s)
}

// drop forgets the slot once nobody holds or waits for it. Caller holds mu.
func (m *KeyedMutex) drop(key string, s *slot) {
	s.waiters--
	if s.waiters == 0 {
		delete(m.slots, key)
	}
}
