package eval

import (
	"fmt"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
)

// Band classifies how the request gets answered.
type Band string

const (
	BandDeterministicStrong Band = "DETERMINISTIC_STRONG"
	BandNeedsAI             Band = "NEEDS_AI"
)

// GateAction is what the pipeline does next.
type GateAction string

const (
	ActionSkipLLM GateAction = "SKIP_LLM"
	ActionCallLLM GateAction = "CALL_LLM"
)

// GateDecision is the outcome of the cost-control gate. Reason is always
// populated; it exists for the audit trail, never for display logic.
type GateDecision struct {
	Band   Band       `json:"band"`
	Action GateAction `json:"action"`
	Reason string     `json:"reason"`
}

// Decide maps an evaluation to a band. Pure function of its inputs; the
// priority order of the rules is load-bearing and mirrors the post-model
// floors in the guard.
func Decide(res Result, facts hand.Facts, th policy.Thresholds) GateDecision {
	if facts.HandLandCount == 0 {
		return GateDecision{
			Band:   BandDeterministicStrong,
			Action: ActionSkipLLM,
			Reason: "zero-land hand is a forced mulligan",
		}
	}

	if facts.HandLandCount == 1 && !facts.HasAcceleration() {
		return GateDecision{
			Band:   BandDeterministicStrong,
			Action: ActionSkipLLM,
			Reason: "one land without acceleration is a forced mulligan",
		}
	}

	if res.Confidence >= th.SkipConfidence && res.KeepBias != BiasNeutral && len(res.UncertaintyReasons) == 0 {
		return GateDecision{
			Band:   BandDeterministicStrong,
			Action: ActionSkipLLM,
			Reason: fmt.Sprintf("deterministic %s at confidence %d with no uncertainty", res.KeepBias, res.Confidence),
		}
	}

	reason := "confidence below threshold"
	switch {
	case len(res.UncertaintyReasons) > 0:
		reason = fmt.Sprintf("uncertainty present: %s", res.UncertaintyReasons[0])
	case res.KeepBias == BiasNeutral:
		reason = "evaluator is neutral"
	}

	return GateDecision{
		Band:   BandNeedsAI,
		Action: ActionCallLLM,
		Reason: reason,
	}
}
