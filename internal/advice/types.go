// Package advice defines the public request and result types of the
// hand-evaluation pipeline and the content-addressed cache key over them.
package advice

import (
	"errors"
	"fmt"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cards"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/eval"
)

// ErrInvalidInput marks malformed requests rejected before any computation.
var ErrInvalidInput = errors.New("invalid advice request")

// ModelDeterministic is the provenance value for answers produced without
// any model call.
const ModelDeterministic = "deterministic"

// Action is the advice verdict.
type Action string

const (
	ActionKeep     Action = "KEEP"
	ActionMulligan Action = "MULLIGAN"
)

// Deck is the deck description under evaluation.
type Deck struct {
	Cards     []cards.DeckEntry `json:"cards"`
	Commander string            `json:"commander,omitempty"`
}

// CallerContext identifies who asked, for entitlement and audit. It never
// participates in the cache key.
type CallerContext struct {
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Entitled  bool   `json:"entitled"`
}

// Request is the single entry point's input.
type Request struct {
	ModelTier     string        `json:"model_tier"`
	Format        string        `json:"format"`
	PlayDraw      string        `json:"play_draw"` // "play" or "draw"
	MulliganCount int           `json:"mulligan_count"`
	Hand          []string      `json:"hand"`
	Deck          Deck          `json:"deck"`
	Caller        CallerContext `json:"caller_context"`
}

// Validate rejects malformed requests. Defaults are filled in place:
// an empty PlayDraw means on the play.
func (r *Request) Validate() error {
	if len(r.Hand) == 0 {
		return fmt.Errorf("%w: hand is empty", ErrInvalidInput)
	}
	if len(r.Hand) > 7 {
		return fmt.Errorf("%w: hand has %d cards, maximum is 7", ErrInvalidInput, len(r.Hand))
	}
	for _, name := range r.Hand {
		if name == "" {
			return fmt.Errorf("%w: hand contains an empty card name", ErrInvalidInput)
		}
	}
	if r.MulliganCount < 0 {
		return fmt.Errorf("%w: mulligan count is negative", ErrInvalidInput)
	}
	for _, entry := range r.Deck.Cards {
		if entry.Count < 0 {
			return fmt.Errorf("%w: deck entry %q has negative count", ErrInvalidInput, entry.Name)
		}
	}

	switch r.PlayDraw {
	case "":
		r.PlayDraw = "play"
	case "play", "draw":
	default:
		return fmt.Errorf("%w: play_draw must be \"play\" or \"draw\"", ErrInvalidInput)
	}

	return nil
}

// OnPlay reports whether the hand is on the play.
func (r *Request) OnPlay() bool {
	return r.PlayDraw != "draw"
}

// AdviceResult is the public output. Constructed once per request and
// never mutated afterwards; cached by value.
type AdviceResult struct {
	Action     Action   `json:"action"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`

	SuggestedLine string   `json:"suggested_line,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	DependsOn     []string `json:"depends_on,omitempty"`

	// Provenance.
	Model    string            `json:"model"`
	Cached   bool              `json:"cached"`
	CacheKey string            `json:"cache_key"`
	Gate     eval.GateDecision `json:"gate"`
}
