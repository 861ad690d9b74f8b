// Package main runs the mulligan advice REST API server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advisor"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/api"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cache"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cards"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/config"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/llm"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/pipeline"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/runlog"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage/repository"
)

var (
	configPath = flag.String("config", "", "Path to config.toml")
	addr       = flag.String("addr", "", "Listen address override")
	dbPath     = flag.String("db-path", "", "Database path override")
)

func main() {
	flag.Parse()

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	dbConfig := storage.DefaultConfig(cfg.Database.Path)
	dbConfig.AutoMigrate = cfg.Database.AutoMigrate
	db, err := storage.Open(dbConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("error closing database", "error", err)
		}
	}()
	logger.Info("database open", "path", cfg.Database.Path)

	kb, err := cards.NewIndex(cards.IndexConfig{
		OverridePath: cfg.Cards.OverridesPath,
		Watch:        cfg.Cards.Watch,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	callTimeout, err := cfg.GetCallTimeout()
	if err != nil {
		return err
	}
	client := llm.NewHTTPClient(&llm.HTTPConfig{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         os.Getenv("OPENAI_API_KEY"),
		DefaultTimeout: callTimeout,
		RateLimit:      rate.Every(500 * time.Millisecond),
		Burst:          2,
		Logger:         logger,
	})

	th := policy.DefaultThresholds()
	models := policy.DefaultModels()
	if cfg.LLM.DefaultTier != "" {
		models.DefaultTier = cfg.LLM.DefaultTier
	}

	advisorConfig := advisor.DefaultConfig()
	advisorConfig.CallTimeout = callTimeout
	advisorConfig.Logger = logger
	adv := advisor.New(client, models, th, advisorConfig)

	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		return err
	}
	var store cache.Store
	var sqliteCache *cache.SQLite
	if cfg.Cache.Backend == "memory" {
		store = cache.NewMemory()
	} else {
		sqliteCache = cache.NewSQLite(repository.NewAdviceCacheRepository(db.Conn()))
		store = sqliteCache
	}

	passphrase := os.Getenv("RUNLOG_PASSPHRASE")
	if passphrase == "" {
		logger.Warn("RUNLOG_PASSPHRASE not set, caller identity will be stored unencrypted")
	}
	runLogConfig := runlog.DefaultConfig()
	runLogConfig.BufferSize = cfg.RunLog.BufferSize
	runLogConfig.Logger = logger
	runs := runlog.New(
		repository.NewRunLogRepository(db.Conn()),
		storage.NewEncryptor(passphrase),
		runLogConfig,
	)
	defer runs.Close()

	service := pipeline.New(kb, store, adv, models, th, runs, &pipeline.Config{
		CacheTTL: ttl,
		Logger:   logger,
	})

	readTimeout, writeTimeout, shutdownTimeout, err := cfg.GetServerTimeouts()
	if err != nil {
		return err
	}
	server := api.NewServer(&api.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Logger:       logger,
	}, service, db)

	// Periodic cleanup of expired cache rows.
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	if sqliteCache != nil {
		interval, err := cfg.GetPurgeInterval()
		if err != nil {
			return err
		}
		go purgeLoop(purgeCtx, sqliteCache, interval, logger)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}

func purgeLoop(ctx context.Context, store *cache.SQLite, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("cache purge failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired cache rows", "rows", n)
			}
		}
	}
}
