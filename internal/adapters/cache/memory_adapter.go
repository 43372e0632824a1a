package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mentorloop/backend/internal/domain/providers"
)

// MemoryAdapter is a process-local CacheProvider used when Redis is
// unavailable and in tests. The clock is injected so expiry is assertable
// without wall-clock sleeps.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates an in-memory cache using the wall clock.
func NewMemoryAdapter() providers.CacheProvider {
	return NewMemoryAdapterWithClock(time.Now)
}

// NewMemoryAdapterWithClock creates an in-memory cache with an injected clock.
func NewMemoryAdapterWithClock(now func() time.Time) providers.CacheProvider {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get retrieves a value from cache. Expired entries are evicted on read so
// rotating period keys do not accumulate in a long-lived process.
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if a.now().After(entry.expiresAt) {
		a.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed the key.
		if cur, ok := a.entries[key]; ok && a.now().After(cur.expiresAt) {
			delete(a.entries, key)
		}
		a.mu.Unlock()
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return entry.value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries[key] = memoryEntry{
		value:     value,
		expiresAt: a.now().Add(time.Duration(expirationSeconds) * time.Second),
	}
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.entries, key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	return err == nil, nil
}
