package repository

import (
	"context"
	"database/sql"
	"time"
)

// RunRecord is one logged advice run.
type RunRecord struct {
	ID          string
	CreatedAt   time.Time
	Source      string // "deterministic", "cache" or "model"
	UserID      string // encrypted at rest when a passphrase is configured
	SessionID   string
	DeckSummary string
	HandSummary string
	OutputJSON  string
	Model       string
	InputTokens int
	OutputTokens int
	CostUSD     float64
	Cached      bool
	GateAction  string
}

// RunLogRepository handles database operations for the advice run log.
// The log is insert-only from the serving path.
type RunLogRepository interface {
	// Insert appends one run record.
	Insert(ctx context.Context, record *RunRecord) error

	// Recent returns the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]*RunRecord, error)

	// CountBySource returns record counts grouped by source.
	CountBySource(ctx context.Context) (map[string]int64, error)
}

// runLogRepository is the concrete implementation of RunLogRepository.
type runLogRepository struct {
	db *sql.DB
}

// NewRunLogRepository creates a new run log repository.
func NewRunLogRepository(db *sql.DB) RunLogRepository {
	return &runLogRepository{db: db}
}

func (r *runLogRepository) Insert(ctx context.Context, record *RunRecord) error {
	query := `
		INSERT INTO run_log (
			id, created_at, source, user_id, session_id,
			deck_summary, hand_summary, output_json, model,
			input_tokens, output_tokens, cost_usd, cached, gate_action
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	cached := 0
	if record.Cached {
		cached = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.CreatedAt.UTC().Format(timeLayout),
		record.Source,
		record.UserID,
		record.SessionID,
		record.DeckSummary,
		record.HandSummary,
		record.OutputJSON,
		record.Model,
		record.InputTokens,
		record.OutputTokens,
		record.CostUSD,
		cached,
		record.GateAction,
	)
	return err
}

func (r *runLogRepository) Recent(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `
		SELECT id, created_at, source, user_id, session_id,
			deck_summary, hand_summary, output_json, model,
			input_tokens, output_tokens, cost_usd, cached, gate_action
		FROM run_log
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*RunRecord
	for rows.Next() {
		var record RunRecord
		var createdAt string
		var cached int
		err := rows.Scan(
			&record.ID,
			&createdAt,
			&record.Source,
			&record.UserID,
			&record.SessionID,
			&record.DeckSummary,
			&record.HandSummary,
			&record.OutputJSON,
			&record.Model,
			&record.InputTokens,
			&record.OutputTokens,
			&record.CostUSD,
			&cached,
			&record.GateAction,
		)
		if err != nil {
			return nil, err
		}
		if record.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, err
		}
		record.Cached = cached != 0
		records = append(records, &record)
	}
	return records, rows.Err()
}

func (r *runLogRepository) CountBySource(ctx context.Context) (map[string]int64, error) {
	query := `SELECT source, COUNT(*) FROM run_log GROUP BY source`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var source string
		var n int64
		if err := rows.Scan(&source, &n); err != nil {
			return nil, err
		}
		counts[source] = n
	}
	return counts, rows.Err()
}
