// Package eval scores an opening hand against a deck profile and decides
// whether the answer is confident enough to skip the model entirely. It
// never performs I/O and runs unconditionally on every request.
package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/profile"
)

// KeepBias is the evaluator's leaning before any model involvement.
type KeepBias string

const (
	BiasKeep     KeepBias = "KEEP"
	BiasMulligan KeepBias = "MULLIGAN"
	BiasNeutral  KeepBias = "NEUTRAL"
)

// Score thresholds for clamping into a bias. Scores run 0-100 with 50 as
// the indifference point.
const (
	keepThreshold     = 60.0
	mulliganThreshold = 40.0
)

// Every result carries two to five reasons, matching what callers return
// from the model path.
const (
	minReasons = 2
	maxReasons = 5
)

// Result is the deterministic evaluation of one hand.
type Result struct {
	Score      float64  `json:"score"`
	KeepBias   KeepBias `json:"keep_bias"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`

	// UncertaintyReasons force escalation when non-empty, regardless of
	// confidence.
	UncertaintyReasons []string `json:"uncertainty_reasons,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Input is everything the evaluator considers.
type Input struct {
	Profile       profile.DeckProfile
	Facts         hand.Facts
	Hand          []string
	OnPlay        bool
	MulliganCount int
	Commander     string
}

// Evaluate scores the hand. The baseline comes from land count relative to
// the deck's land percent; each true fact flag adds credit weighted by how
// much the profile relies on that resource; missing commander colors
// subtract.
func Evaluate(in Input, th policy.Thresholds) Result {
	facts := in.Facts
	deck := in.Profile

	// Hopeless hands short-circuit with fixed confidence. The gate and
	// the post-model floors re-assert these, so all three stay in sync
	// through the shared policy values.
	if facts.HandLandCount == 0 {
		res := Result{
			Score:      5,
			KeepBias:   BiasMulligan,
			Confidence: th.ZeroLandConfidence,
			Reasons:    []string{"Zero lands cannot cast anything this deck plays."},
		}
		res.clampReasons(deck)
		return res
	}
	if facts.HandLandCount == 1 && !facts.HasAcceleration() {
		res := Result{
			Score:      18,
			KeepBias:   BiasMulligan,
			Confidence: th.OneLandConfidence,
			Reasons:    []string{"One land with no ramp or fast mana stalls for multiple turns."},
		}
		res.clampReasons(deck)
		return res
	}

	res := Result{Score: 50}
	handSize := len(in.Hand)
	if handSize == 0 {
		handSize = 7
	}

	// Fast mana behaves like an extra land for the opening-turn math.
	sources := float64(facts.HandLandCount)
	if facts.HasFastMana {
		sources++
	}
	expected := deck.LandPercent * float64(handSize)
	delta := sources - expected
	res.Score += delta * 10

	switch {
	case delta >= 0:
		res.addReason("%d lands meets this deck's %.0f%% land base.", facts.HandLandCount, deck.LandPercent*100)
	case delta >= -1:
		res.addReason("%d lands runs slightly below this deck's %.0f%% land base.", facts.HandLandCount, deck.LandPercent*100)
	default:
		res.addReason("%d lands is short for this deck's %.0f%% land base.", facts.HandLandCount, deck.LandPercent*100)
	}

	// Flood penalty.
	if sources >= 6 {
		res.Score -= (sources - 5) * 8
		res.addReason("Hand is mana heavy with little action.")
	}

	// Resource credits, weighted by how much this deck leans on each.
	if facts.HasFastMana {
		res.Score += 6 + float64(deck.VelocityScore)/4
		res.addReason("Fast mana jumps this deck ahead of its curve.")
	} else if facts.HasRamp {
		res.Score += 5 + float64(deck.VelocityScore)/5
		res.addReason("Ramp accelerates toward the deck's plan.")
	}

	if facts.HasTutor {
		credit := 3 + float64(deck.TutorCount)/3
		if credit > 7 {
			credit = 7
		}
		res.Score += credit
		res.addReason("A tutor finds whatever the hand is missing.")
	}

	if facts.HasDrawEngine {
		credit := 5.0
		if deck.MulliganStyle == profile.StylePatient {
			credit += 2
		}
		res.Score += credit
		res.addReason("Card draw smooths out the later turns.")
	}

	if facts.HasInteraction {
		credit := 4.0
		if deck.Archetype == profile.ArchetypeControl {
			credit += 3
		}
		res.Score += credit
	}

	if facts.HasProtection {
		res.Score += 2
	}

	// Color coverage against the deck's mana-base colors.
	missing := missingColors(facts, deck.Colors)
	if len(missing) > 0 {
		res.Score -= float64(len(missing)) * 8
		res.addReason("Hand cannot produce %s for this deck.", strings.Join(missing, ""))
	}

	// Being on the draw sees one extra card toward land drops.
	if !in.OnPlay {
		res.Score += 3
	}

	// Each mulligan already taken lowers the bar for keeping.
	if in.MulliganCount > 0 {
		res.Score += float64(in.MulliganCount) * 5
		res.addReason("At %d cards a workable hand is worth keeping.", 7-in.MulliganCount)
	}

	res.Score = clamp(res.Score, 0, 100)
	res.KeepBias = biasFor(res.Score)
	res.Confidence = confidenceFor(res.Score)

	// Escalation triggers.
	if nearBoundary(res.Score, th.BoundaryWidth) {
		res.UncertaintyReasons = append(res.UncertaintyReasons,
			fmt.Sprintf("score %.0f sits near a decision boundary", res.Score))
	}
	if deck.Archetype == profile.ArchetypeUnknown {
		res.UncertaintyReasons = append(res.UncertaintyReasons, "deck profile is unknown")
	}
	if len(missing) == 0 && len(deck.Colors) > 1 && facts.HandLandCount < len(deck.Colors) {
		res.UncertaintyReasons = append(res.UncertaintyReasons, "colors barely cover the deck's requirements")
	}

	res.clampReasons(deck)
	return res
}

func (r *Result) addReason(format string, args ...any) {
	r.Reasons = append(r.Reasons, fmt.Sprintf(format, args...))
}

// clampReasons bounds the reason list to the result envelope. A short list
// gets a line citing the deck's own land base; a long one drops the tail.
func (r *Result) clampReasons(deck profile.DeckProfile) {
	if len(r.Reasons) < minReasons {
		r.Reasons = append(r.Reasons, fmt.Sprintf(
			"This %s deck runs a %.0f%% land base; weigh the hand against that baseline.",
			deck.Archetype, deck.LandPercent*100))
	}
	if len(r.Reasons) > maxReasons {
		r.Reasons = r.Reasons[:maxReasons]
	}
}

func biasFor(score float64) KeepBias {
	switch {
	case score >= keepThreshold:
		return BiasKeep
	case score <= mulliganThreshold:
		return BiasMulligan
	default:
		return BiasNeutral
	}
}

// confidenceFor maps distance from the nearest bias threshold onto 0-100.
// A score deep inside the keep or mulligan region is a confident call; a
// neutral score is never confident.
func confidenceFor(score float64) int {
	var dist float64
	switch biasFor(score) {
	case BiasKeep:
		dist = score - keepThreshold
	case BiasMulligan:
		dist = mulliganThreshold - score
	default:
		return 50
	}

	conf := 60 + dist*3
	if conf > 99 {
		conf = 99
	}
	return int(math.Round(conf))
}

func nearBoundary(score, width float64) bool {
	return math.Abs(score-keepThreshold) < width || math.Abs(score-mulliganThreshold) < width
}

func missingColors(facts hand.Facts, need []string) []string {
	var missing []string
	for _, c := range need {
		if !facts.HasColor(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
