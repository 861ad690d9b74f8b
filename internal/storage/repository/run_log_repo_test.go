package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

func setupRunLogTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS run_log (
			id             TEXT PRIMARY KEY,
			created_at     TEXT NOT NULL,
			source         TEXT NOT NULL,
			user_id        TEXT NOT NULL DEFAULT '',
			session_id     TEXT NOT NULL DEFAULT '',
			deck_summary   TEXT NOT NULL DEFAULT '',
			hand_summary   TEXT NOT NULL DEFAULT '',
			output_json    TEXT NOT NULL,
			model          TEXT NOT NULL DEFAULT '',
			input_tokens   INTEGER NOT NULL DEFAULT 0,
			output_tokens  INTEGER NOT NULL DEFAULT 0,
			cost_usd       REAL NOT NULL DEFAULT 0,
			cached         INTEGER NOT NULL DEFAULT 0,
			gate_action    TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create run_log table: %v", err)
	}

	return db
}

func TestRunLogRepository_InsertAndRecent(t *testing.T) {
	db := setupRunLogTestDB(t)
	defer db.Close()

	repo := NewRunLogRepository(db)
	ctx := context.Background()

	record := &RunRecord{
		ID:           uuid.NewString(),
		Source:       "model",
		UserID:       "enc:user",
		SessionID:    "enc:session",
		DeckSummary:  "control, 36% lands",
		HandSummary:  "2 lands, interaction",
		OutputJSON:   `{"action":"KEEP","confidence":72}`,
		Model:        "gpt-4o-mini",
		InputTokens:  400,
		OutputTokens: 90,
		CostUSD:      0.00012,
		Cached:       false,
		GateAction:   "CALL_LLM",
	}
	if err := repo.Insert(ctx, record); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if record.CreatedAt.IsZero() {
		t.Error("Insert should stamp CreatedAt")
	}

	got, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent returned %d records, want 1", len(got))
	}
	if got[0].ID != record.ID || got[0].Model != "gpt-4o-mini" || got[0].Cached {
		t.Errorf("Recent record mismatch: %+v", got[0])
	}
	if got[0].GateAction != "CALL_LLM" {
		t.Errorf("GateAction = %q", got[0].GateAction)
	}
}

func TestRunLogRepository_RecentOrdersNewestFirst(t *testing.T) {
	db := setupRunLogTestDB(t)
	defer db.Close()

	repo := NewRunLogRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		record := &RunRecord{
			ID:         uuid.NewString(),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Source:     "deterministic",
			OutputJSON: `{}`,
		}
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	got, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(got))
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Errorf("Recent not newest first: %v then %v", got[0].CreatedAt, got[1].CreatedAt)
	}
}

func TestRunLogRepository_CountBySource(t *testing.T) {
	db := setupRunLogTestDB(t)
	defer db.Close()

	repo := NewRunLogRepository(db)
	ctx := context.Background()

	for _, source := range []string{"model", "model", "cache", "deterministic"} {
		record := &RunRecord{ID: uuid.NewString(), Source: source, OutputJSON: `{}`}
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	counts, err := repo.CountBySource(ctx)
	if err != nil {
		t.Fatalf("CountBySource: %v", err)
	}
	if counts["model"] != 2 || counts["cache"] != 1 || counts["deterministic"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
