// Package pipeline wires the full advice flow: validation, deck
// profiling, fact extraction, deterministic evaluation, the cost gate,
// the cache and the model escalation path.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advisor"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cache"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cards"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/eval"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/llm"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/profile"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/runlog"
)

// Run sources for the run log.
const (
	sourceDeterministic = "deterministic"
	sourceCache         = "cache"
	sourceModel         = "model"
)

// ModelAdvisor is the escalation path. Satisfied by advisor.Advisor.
type ModelAdvisor interface {
	Advise(ctx context.Context, in advisor.Input) (*advisor.Advice, error)
}

// Config configures the Service.
type Config struct {
	// CacheTTL is how long model answers stay valid.
	// Default: 24 hours
	CacheTTL time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{CacheTTL: 24 * time.Hour}
}

// Service answers mulligan advice requests.
type Service struct {
	kb     cards.Knowledge
	store  cache.Store
	adv    ModelAdvisor
	models policy.Models
	th     policy.Thresholds
	runs   *runlog.Logger
	config *Config
	logger *slog.Logger
}

// New creates a Service. The run logger may be nil to disable logging.
func New(kb cards.Knowledge, store cache.Store, adv ModelAdvisor, models policy.Models, th policy.Thresholds, runs *runlog.Logger, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 24 * time.Hour
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kb:     kb,
		store:  store,
		adv:    adv,
		models: models,
		th:     th,
		runs:   runs,
		config: config,
		logger: logger,
	}
}

// GetAdvice runs the full pipeline for one request. Only invalid input
// and a double model failure surface as errors; every infrastructure
// problem degrades silently toward a deterministic or conservative
// answer.
func (s *Service) GetAdvice(ctx context.Context, req *advice.Request) (*advice.AdviceResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := advice.CacheKey(req)

	// Profiling and fact extraction are pure and independent.
	var deckProfile profile.DeckProfile
	var facts hand.Facts
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		deckProfile = profile.Build(req.Deck.Cards, req.Deck.Commander, s.kb)
		return nil
	})
	g.Go(func() error {
		facts = hand.ExtractFacts(req.Hand, s.kb)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tags := hand.Tags(req.Hand, facts, deckProfile, req.Deck.Commander)

	evalRes := eval.Evaluate(eval.Input{
		Profile:       deckProfile,
		Facts:         facts,
		Hand:          req.Hand,
		OnPlay:        req.OnPlay(),
		MulliganCount: req.MulliganCount,
		Commander:     req.Deck.Commander,
	}, s.th)
	gate := eval.Decide(evalRes, facts, s.th)

	if gate.Action == eval.ActionSkipLLM {
		result := s.deterministicResult(evalRes, gate, key)
		s.logRun(req, result, deckProfile, sourceDeterministic, 0, 0)
		return result, nil
	}

	if cached, err := s.store.Get(ctx, key); err == nil {
		cached.Cached = true
		cached.CacheKey = key
		cached.Gate = gate
		s.logRun(req, cached, deckProfile, sourceCache, 0, 0)
		return cached, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warn("cache read failed, proceeding to model", "error", err)
	}

	model := s.models.Resolve(req.ModelTier, req.Caller.Entitled)
	modelAdvice, err := s.adv.Advise(ctx, advisor.Input{
		Request: req,
		Profile: deckProfile,
		Facts:   facts,
		Tags:    tags,
		Eval:    evalRes,
		Model:   model,
	})
	if err != nil {
		return nil, fmt.Errorf("advice unavailable: %w", err)
	}

	result := &advice.AdviceResult{
		Action:        modelAdvice.Action,
		Confidence:    modelAdvice.Confidence,
		Reasons:       modelAdvice.Reasons,
		SuggestedLine: modelAdvice.SuggestedLine,
		Warnings:      modelAdvice.Warnings,
		DependsOn:     modelAdvice.DependsOn,
		Model:         modelAdvice.ModelUsed,
		Cached:        false,
		CacheKey:      key,
		Gate:          gate,
	}

	// A degraded answer is a placeholder, not something to pin for a day.
	if !modelAdvice.Degraded {
		if err := s.store.Set(ctx, key, result, modelAdvice.ModelUsed, s.config.CacheTTL); err != nil {
			s.logger.Warn("cache write failed", "error", err)
		}
	}

	s.logRun(req, result, deckProfile, sourceModel, modelAdvice.InputTokens, modelAdvice.OutputTokens)
	return result, nil
}

func (s *Service) deterministicResult(res eval.Result, gate eval.GateDecision, key string) *advice.AdviceResult {
	action := advice.ActionKeep
	if res.KeepBias == eval.BiasMulligan {
		action = advice.ActionMulligan
	}
	return &advice.AdviceResult{
		Action:     action,
		Confidence: res.Confidence,
		Reasons:    res.Reasons,
		Warnings:   res.Warnings,
		Model:      advice.ModelDeterministic,
		Cached:     false,
		CacheKey:   key,
		Gate:       gate,
	}
}

func (s *Service) logRun(req *advice.Request, result *advice.AdviceResult, deckProfile profile.DeckProfile, source string, inputTokens, outputTokens int) {
	if s.runs == nil {
		return
	}

	output, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to serialize result for run log", "error", err)
		output = []byte("{}")
	}

	model := result.Model
	cost := 0.0
	if source == sourceModel {
		cost = llm.CostUSD(model, inputTokens, outputTokens)
	}

	s.runs.Record(runlog.Entry{
		Source:       source,
		UserID:       req.Caller.UserID,
		SessionID:    req.Caller.SessionID,
		DeckSummary:  deckSummary(deckProfile, len(req.Deck.Cards)),
		HandSummary:  strings.Join(req.Hand, ", "),
		OutputJSON:   string(output),
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostUSD:      cost,
		Cached:       result.Cached,
		GateAction:   string(result.Gate.Action),
	})
}

func deckSummary(p profile.DeckProfile, lines int) string {
	return fmt.Sprintf("%s, %d lines, %.0f%% lands, velocity %d", p.Archetype, lines, p.LandPercent*100, p.VelocityScore)
}
