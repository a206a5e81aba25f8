package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// SequentialIDGenerator returns prefix-1, prefix-2, ... so tests can predict ids.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%04d", g.prefix, g.next)
}

// MockTransactionRepository wraps a real repository and lets a test
// override single methods.
type MockTransactionRepository struct {
	usecase.TransactionRepository

	CreateFunc func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, t)
	}
	return m.TransactionRepository.Create(ctx, tx, t)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, t)
	}
	return m.TransactionRepository.Update(ctx, tx, t)
}

// MockAccountRepository wraps a real repository and lets a test override
// single methods.
type MockAccountRepository struct {
	usecase.AccountRepository

	ListIDsFunc func(ctx context.Context, ownerID string) ([]string, error)
}

func (m *MockAccountRepository) ListIDs(ctx context.Context, ownerID string) ([]string, error) {
	if m.ListIDsFunc != nil {
		return m.ListIDsFunc(ctx, ownerID)
	}
	return m.AccountRepository.ListIDs(ctx, ownerID)
}

// MemoryCache is an in-memory usecase.Cache that ignores TTLs.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	Deleted []string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.Deleted = append(c.Deleted, k)
	}
	return nil
}
