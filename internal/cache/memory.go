package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
)

// Memory is an in-process TTL cache. Entries are stored as serialized
// JSON so a cached result can never alias a caller's copy.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get retrieves the cached result for a key, or ErrNotFound.
func (m *Memory) Get(ctx context.Context, key string) (*advice.AdviceResult, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	var result advice.AdviceResult
	if err := json.Unmarshal(entry.payload, &result); err != nil {
		return nil, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return &result, nil
}

// Set stores a result under its key with the given TTL.
func (m *Memory) Set(ctx context.Context, key string, result *advice.AdviceResult, modelUsed string, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Purge drops expired entries and reports how many were removed.
func (m *Memory) Purge() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
