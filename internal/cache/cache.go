// Package cache stores finished advice keyed by the content hash of the
// decision inputs. A hit means the exact same deck, hand and settings
// were already analyzed; caller identity never reaches the key.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
)

// ErrNotFound marks a cache miss. Expired entries read as misses.
var ErrNotFound = errors.New("cache: not found")

// Store is the advice cache. Implementations must be safe for concurrent
// use, and duplicate Sets for the same key must be idempotent.
type Store interface {
	// Get retrieves the cached result for a key, or ErrNotFound.
	Get(ctx context.Context, key string) (*advice.AdviceResult, error)

	// Set stores a result under its key with the given TTL.
	Set(ctx context.Context, key string, result *advice.AdviceResult, modelUsed string, ttl time.Duration) error
}
