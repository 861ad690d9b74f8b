// Package advisor escalates gated hands to a language model and forces
// the model's output back into consistency with the deterministic ground
// truth: JSON extraction and repair, schema validation with degradation,
// the hallucination guard, and reconciliation against the deterministic
// verdict.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/eval"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/llm"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/profile"
)

// ErrModelUnavailable marks a model call where the primary and the
// fallback both failed.
var ErrModelUnavailable = errors.New("model unavailable")

// Config configures the Advisor.
type Config struct {
	// CallTimeout bounds each model invocation.
	CallTimeout time.Duration

	// MaxTokens bounds the model's output length.
	MaxTokens int

	// Temperature for the model call.
	Temperature float64

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CallTimeout: 30 * time.Second,
		MaxTokens:   600,
		Temperature: 0.3,
	}
}

// Advisor runs the model side of the pipeline.
type Advisor struct {
	client llm.Client
	models policy.Models
	th     policy.Thresholds
	config *Config
	logger *slog.Logger
}

// New creates an Advisor.
func New(client llm.Client, models policy.Models, th policy.Thresholds, config *Config) *Advisor {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{client: client, models: models, th: th, config: config, logger: logger}
}

// Input carries everything the advisor needs for one hand.
type Input struct {
	Request *advice.Request
	Profile profile.DeckProfile
	Facts   hand.Facts
	Tags    []string
	Eval    eval.Result

	// Model is the concrete primary model, already resolved from the
	// requested tier and the caller's entitlement.
	Model string
}

// Advice is the advisor's validated, guarded output plus usage accounting
// for the run log.
type Advice struct {
	Action        advice.Action
	Confidence    int
	Reasons       []string
	SuggestedLine string
	Warnings      []string
	DependsOn     []string

	ModelUsed    string
	InputTokens  int
	OutputTokens int

	// Degraded is set when the model's response failed shape validation
	// and a minimal conservative answer was substituted.
	Degraded bool
}

// modelReply is the strict schema the model must produce.
type modelReply struct {
	Action        string   `json:"action"`
	Confidence    *int     `json:"confidence"`
	Reasons       []string `json:"reasons"`
	SuggestedLine string   `json:"suggested_line"`
	DependsOn     []string `json:"depends_on"`
}

// Advise calls the model and validates, guards and reconciles its answer.
// Transport failure of both models returns ErrModelUnavailable; everything
// else yields a best-effort Advice.
func (a *Advisor) Advise(ctx context.Context, in Input) (*Advice, error) {
	messages := buildMessages(promptInput{
		Hand:          in.Request.Hand,
		Commander:     in.Request.Deck.Commander,
		Format:        in.Request.Format,
		PlayDraw:      in.Request.PlayDraw,
		MulliganCount: in.Request.MulliganCount,
		Profile:       in.Profile,
		Facts:         in.Facts,
		Tags:          in.Tags,
		Eval:          in.Eval,
	})

	resp, err := a.client.Call(ctx, messages, llm.CallOptions{
		Model:         in.Model,
		FallbackModel: a.models.Fallback,
		Timeout:       a.config.CallTimeout,
		MaxTokens:     a.config.MaxTokens,
		Temperature:   a.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	out := a.parseReply(resp, in)
	a.guardAndReconcile(out, in)
	return out, nil
}

// parseReply extracts and validates the model's JSON. An unparseable or
// shape-invalid response degrades to a conservative low-confidence answer
// instead of failing the request.
func (a *Advisor) parseReply(resp *llm.Response, in Input) *Advice {
	out := &Advice{
		ModelUsed:    resp.ModelUsed,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}

	block, ok := extractJSONBlock(resp.Text)
	if !ok {
		a.logger.Warn("model response had no JSON block", "model", resp.ModelUsed)
		return a.degrade(out, "model response was not parseable")
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(block), &reply); err != nil {
		a.logger.Warn("model JSON failed to parse", "model", resp.ModelUsed, "error", err)
		return a.degrade(out, "model response was not parseable")
	}

	action := advice.Action(strings.ToUpper(strings.TrimSpace(reply.Action)))
	if action != advice.ActionKeep && action != advice.ActionMulligan {
		return a.degrade(out, "model response had an invalid action")
	}
	if reply.Confidence == nil || *reply.Confidence < 0 || *reply.Confidence > 100 {
		return a.degrade(out, "model response had an invalid confidence")
	}
	if len(reply.Reasons) == 0 {
		return a.degrade(out, "model response gave no reasons")
	}

	out.Action = action
	out.Confidence = *reply.Confidence
	out.Reasons = reply.Reasons
	out.SuggestedLine = strings.TrimSpace(reply.SuggestedLine)
	if len(reply.DependsOn) > 2 {
		reply.DependsOn = reply.DependsOn[:2]
	}
	out.DependsOn = reply.DependsOn
	return out
}

// degrade fills a minimal conservative answer: a keep at coin-flip
// confidence with an explicit warning. Safer than an error for this
// feature.
func (a *Advisor) degrade(out *Advice, warning string) *Advice {
	out.Action = advice.ActionKeep
	out.Confidence = 50
	out.Reasons = []string{"Unable to analyze this hand in depth; it shows no disqualifying weakness."}
	out.Warnings = append(out.Warnings, warning)
	out.Degraded = true
	return out
}

// guardAndReconcile applies the hallucination guard and the deterministic
// reconciliation policy in place.
func (a *Advisor) guardAndReconcile(out *Advice, in Input) {
	deckNames := make(map[string]bool, len(in.Request.Deck.Cards))
	for _, entry := range in.Request.Deck.Cards {
		deckNames[strings.ToLower(entry.Name)] = true
	}

	out.Reasons = guardReasons(out.Reasons, guardInput{
		Hand:      in.Request.Hand,
		DeckNames: deckNames,
		Commander: in.Request.Deck.Commander,
		Facts:     in.Facts,
		Profile:   in.Profile,
	})

	reconcile(out, in.Eval, in.Facts, a.th)
}

// extractJSONBlock finds the first balanced {...} block in text, tolerating
// models that wrap their JSON in prose or markdown fences.
func extractJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
