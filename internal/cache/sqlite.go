package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage/repository"
)

// SQLite is a persistent cache backed by the advice_cache table. Expiry
// is checked on read, so a restart never serves stale advice.
type SQLite struct {
	repo repository.AdviceCacheRepository
}

// NewSQLite creates a cache over the given repository.
func NewSQLite(repo repository.AdviceCacheRepository) *SQLite {
	return &SQLite{repo: repo}
}

// Get retrieves the cached result for a key, or ErrNotFound.
func (s *SQLite) Get(ctx context.Context, key string) (*advice.AdviceResult, error) {
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache read: %w", err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}

	var result advice.AdviceResult
	if err := json.Unmarshal([]byte(entry.ResultJSON), &result); err != nil {
		return nil, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return &result, nil
}

// Set stores a result under its key with the given TTL.
func (s *SQLite) Set(ctx context.Context, key string, result *advice.AdviceResult, modelUsed string, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	now := time.Now().UTC()
	entry := &repository.CachedAdvice{
		Key:        key,
		ResultJSON: string(payload),
		ModelUsed:  modelUsed,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := s.repo.Set(ctx, entry); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// DeleteExpired removes rows whose TTL has passed.
func (s *SQLite) DeleteExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
