package runlog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage/repository"
)

// fakeRepo collects inserted records, optionally failing every insert.
type fakeRepo struct {
	mu      sync.Mutex
	records []*repository.RunRecord
	fail    bool
}

func (f *fakeRepo) Insert(ctx context.Context, record *repository.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("insert failed")
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRepo) Recent(ctx context.Context, limit int) ([]*repository.RunRecord, error) {
	return nil, nil
}

func (f *fakeRepo) CountBySource(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func (f *fakeRepo) inserted() []*repository.RunRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*repository.RunRecord(nil), f.records...)
}

func TestLogger_RecordsEntries(t *testing.T) {
	repo := &fakeRepo{}
	logger := New(repo, nil, nil)

	logger.Record(Entry{
		Source:     "model",
		UserID:     "user-1",
		OutputJSON: `{"action":"KEEP"}`,
		Model:      "gpt-4o-mini",
		GateAction: "CALL_LLM",
	})
	logger.Close()

	records := repo.inserted()
	if len(records) != 1 {
		t.Fatalf("inserted %d records, want 1", len(records))
	}
	r := records[0]
	if r.ID == "" {
		t.Error("record should get an ID")
	}
	if r.Source != "model" || r.Model != "gpt-4o-mini" || r.GateAction != "CALL_LLM" {
		t.Errorf("record mismatch: %+v", r)
	}
	// No passphrase configured: identity passes through.
	if r.UserID != "user-1" {
		t.Errorf("UserID = %q", r.UserID)
	}
}

func TestLogger_EncryptsCallerIdentity(t *testing.T) {
	repo := &fakeRepo{}
	enc := storage.NewEncryptor("passphrase")
	logger := New(repo, enc, nil)

	logger.Record(Entry{Source: "cache", UserID: "user-1", SessionID: "sess-9", OutputJSON: `{}`})
	logger.Close()

	records := repo.inserted()
	if len(records) != 1 {
		t.Fatalf("inserted %d records, want 1", len(records))
	}
	r := records[0]
	if r.UserID == "user-1" || r.SessionID == "sess-9" {
		t.Error("caller identity stored in the clear despite passphrase")
	}

	plain, err := enc.DecryptString(r.UserID)
	if err != nil || plain != "user-1" {
		t.Errorf("stored identity does not decrypt: %q, %v", plain, err)
	}
}

func TestLogger_RecordNeverBlocks(t *testing.T) {
	repo := &fakeRepo{}
	config := DefaultConfig()
	config.BufferSize = 1
	logger := New(repo, nil, config)

	// Flood well past the buffer; Record must return promptly even if
	// entries get dropped.
	for i := 0; i < 100; i++ {
		logger.Record(Entry{Source: "deterministic", OutputJSON: `{}`})
	}
	logger.Close()

	if len(repo.inserted()) == 0 {
		t.Error("expected at least one entry to land")
	}
}

func TestLogger_InsertFailureIsSwallowed(t *testing.T) {
	repo := &fakeRepo{fail: true}
	logger := New(repo, nil, nil)

	logger.Record(Entry{Source: "model", OutputJSON: `{}`})
	logger.Close() // must not panic or hang
}
