package credstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// MemoryBackend implements Backend using in-memory storage. Expired entries
// are collected lazily on read and eagerly by an optional cleanup loop.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ticker  *time.Ticker
	done    chan struct{}
}

// NewMemoryBackend creates an in-memory backend. A positive cleanupInterval
// starts a background sweep of expired entries; pass 0 to disable it.
func NewMemoryBackend(cleanupInterval time.Duration) *MemoryBackend {
	b := &MemoryBackend{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		b.ticker = time.NewTicker(cleanupInterval)
		go b.cleanupLoop()
	}

	return b
}

// Get retrieves the value stored under key
func (b *MemoryBackend) Get(ctx context.Context, key string) (string, error) {
	b.mu.RLock()
	entry, exists := b.entries[key]
	b.mu.RUnlock()

	if !exists {
		return "", ErrNotFound
	}

	if entry.expired() {
		b.mu.Lock()
		delete(b.entries, key)
		b.mu.Unlock()
		return "", ErrNotFound
	}

	return entry.value, nil
}

// Set stores value under key with an optional ttl
func (b *MemoryBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	b.mu.Lock()
	b.entries[key] = entry
	b.mu.Unlock()
	return nil
}

// Remove deletes the value stored under key
func (b *MemoryBackend) Remove(ctx context.Context, key string) error {
	b.mu.Lock()
	delete(b.entries, key)
	b.mu.Unlock()
	return nil
}

// Len returns the number of live entries
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, entry := range b.entries {
		if !entry.expired() {
			n++
		}
	}
	return n
}

// Close stops the cleanup goroutine
func (b *MemoryBackend) Close() error {
	if b.ticker != nil {
		b.ticker.Stop()
		close(b.done)
	}
	return nil
}

func (b *MemoryBackend) cleanupLoop() {
	for {
		select {
		case <-b.ticker.C:
			b.deleteExpired()
		case <-b.done:
			return
		}
	}
}

func (b *MemoryBackend) deleteExpired() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, entry := range b.entries {
		if entry.expired() {
			delete(b.entries, key)
		}
	}
}
