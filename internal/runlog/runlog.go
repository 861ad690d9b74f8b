// Package runlog persists a record of every advice run off the response
// path. Recording never blocks or fails a request: the channel drops
// when full and insert errors are logged and swallowed.
package runlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage/repository"
)

// Entry is one advice run to be logged. Caller identifiers are supplied
// in the clear and encrypted by the worker before they reach disk.
type Entry struct {
	Source       string
	UserID       string
	SessionID    string
	DeckSummary  string
	HandSummary  string
	OutputJSON   string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Cached       bool
	GateAction   string
}

// Config configures the Logger.
type Config struct {
	// BufferSize is the channel capacity. Entries beyond it are dropped.
	// Default: 256
	BufferSize int

	// InsertTimeout bounds each database insert.
	// Default: 5 seconds
	InsertTimeout time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BufferSize:    256,
		InsertTimeout: 5 * time.Second,
	}
}

// Logger is the asynchronous run logger.
type Logger struct {
	repo   repository.RunLogRepository
	enc    *storage.Encryptor
	config *Config
	logger *slog.Logger

	entries chan Entry
	done    chan struct{}
}

// New creates a Logger and starts its worker goroutine. Call Close to
// drain and stop it.
func New(repo repository.RunLogRepository, enc *storage.Encryptor, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 256
	}
	if config.InsertTimeout <= 0 {
		config.InsertTimeout = 5 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if enc == nil {
		enc = storage.NewEncryptor("")
	}

	l := &Logger{
		repo:    repo,
		enc:     enc,
		config:  config,
		logger:  logger,
		entries: make(chan Entry, config.BufferSize),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

// Record queues an entry for persistence. It never blocks: when the
// buffer is full the entry is dropped with a warning.
func (l *Logger) Record(entry Entry) {
	select {
	case l.entries <- entry:
	default:
		l.logger.Warn("run log buffer full, dropping entry", "source", entry.Source)
	}
}

// Close stops accepting entries, drains the buffer and waits for the
// worker to finish.
func (l *Logger) Close() {
	close(l.entries)
	<-l.done
}

func (l *Logger) run() {
	defer close(l.done)

	for entry := range l.entries {
		l.insert(entry)
	}
}

func (l *Logger) insert(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.config.InsertTimeout)
	defer cancel()

	userID, err := l.enc.EncryptString(entry.UserID)
	if err != nil {
		l.logger.Warn("failed to encrypt user id, storing empty", "error", err)
		userID = ""
	}
	sessionID, err := l.enc.EncryptString(entry.SessionID)
	if err != nil {
		l.logger.Warn("failed to encrypt session id, storing empty", "error", err)
		sessionID = ""
	}

	record := &repository.RunRecord{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Source:       entry.Source,
		UserID:       userID,
		SessionID:    sessionID,
		DeckSummary:  entry.DeckSummary,
		HandSummary:  entry.HandSummary,
		OutputJSON:   entry.OutputJSON,
		Model:        entry.Model,
		InputTokens:  entry.InputTokens,
		OutputTokens: entry.OutputTokens,
		CostUSD:      entry.CostUSD,
		Cached:       entry.Cached,
		GateAction:   entry.GateAction,
	}

	if err := l.repo.Insert(ctx, record); err != nil {
		l.logger.Warn("failed to insert run log entry", "source", entry.Source, "error", err)
	}
}
