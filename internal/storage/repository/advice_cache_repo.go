package repository

import (
	"context"
	"database/sql"
	"time"
)

const timeLayout = "2006-01-02 15:04:05.999999"

// CachedAdvice is one row of the advice cache.
type CachedAdvice struct {
	Key        string
	ResultJSON string
	ModelUsed  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// AdviceCacheRepository handles database operations for cached advice.
type AdviceCacheRepository interface {
	// Get retrieves a cached result by key. Expired rows are treated as
	// absent. A miss returns (nil, nil).
	Get(ctx context.Context, key string) (*CachedAdvice, error)

	// Set stores a result under its key, replacing any previous row.
	Set(ctx context.Context, entry *CachedAdvice) error

	// DeleteExpired removes rows whose TTL has passed and reports how
	// many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// adviceCacheRepository is the concrete implementation of AdviceCacheRepository.
type adviceCacheRepository struct {
	db *sql.DB
}

// NewAdviceCacheRepository creates a new advice cache repository.
func NewAdviceCacheRepository(db *sql.DB) AdviceCacheRepository {
	return &adviceCacheRepository{db: db}
}

func (r *adviceCacheRepository) Get(ctx context.Context, key string) (*CachedAdvice, error) {
	query := `
		SELECT cache_key, result_json, model_used, created_at, expires_at
		FROM advice_cache
		WHERE cache_key = ? AND expires_at > ?
	`

	now := time.Now().UTC().Format(timeLayout)

	var entry CachedAdvice
	var createdAt, expiresAt string
	err := r.db.QueryRowContext(ctx, query, key, now).Scan(
		&entry.Key,
		&entry.ResultJSON,
		&entry.ModelUsed,
		&createdAt,
		&expiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if entry.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, err
	}
	if entry.ExpiresAt, err = time.Parse(timeLayout, expiresAt); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *adviceCacheRepository) Set(ctx context.Context, entry *CachedAdvice) error {
	query := `
		INSERT INTO advice_cache (cache_key, result_json, model_used, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			result_json = excluded.result_json,
			model_used = excluded.model_used,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.Key,
		entry.ResultJSON,
		entry.ModelUsed,
		entry.CreatedAt.UTC().Format(timeLayout),
		entry.ExpiresAt.UTC().Format(timeLayout),
	)
	return err
}

func (r *adviceCacheRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM advice_cache WHERE expires_at <= ?`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
