package advisor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/eval"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/profile"
)

const (
	minReasons      = 2
	maxReasons      = 5
	maxReasonLength = 140
)

type guardInput struct {
	Hand      []string
	DeckNames map[string]bool // lowercased deck list names
	Commander string
	Facts     hand.Facts
	Profile   profile.DeckProfile
}

// capabilityRule ties claim vocabulary to the HandFacts field that must be
// true for the claim to stand. The contract is that every capability claim
// is traceable to a fact flag; the vocabulary below is just how claims are
// recognized.
type capabilityRule struct {
	patterns []string
	holds    func(hand.Facts) bool
}

var capabilityRules = []capabilityRule{
	{
		patterns: []string{"ramp", "accelerat", "mana rock", "mana dork"},
		holds:    func(f hand.Facts) bool { return f.HasRamp || f.HasFastMana },
	},
	{
		patterns: []string{"tutor", "search your library"},
		holds:    func(f hand.Facts) bool { return f.HasTutor },
	},
	{
		patterns: []string{"card draw", "draw engine", "card advantage", "cantrip"},
		holds:    func(f hand.Facts) bool { return f.HasDrawEngine },
	},
	{
		patterns: []string{"interaction", "removal", "answers"},
		holds:    func(f hand.Facts) bool { return f.HasInteraction },
	},
	{
		patterns: []string{"protection", "protect your"},
		holds:    func(f hand.Facts) bool { return f.HasProtection },
	},
	{
		patterns: []string{"fast mana", "explosive start", "turn-one"},
		holds:    func(f hand.Facts) bool { return f.HasFastMana },
	},
}

// shakyManaPatterns are claims of mana trouble, contradicted when the hand
// demonstrably has a stable base.
var shakyManaPatterns = []string{
	"mana is shaky", "shaky mana", "mana problems", "short on lands",
	"light on lands", "not enough lands", "color problems", "mana screwed",
}

// genericFramingPatterns are appeals to genre averages instead of this
// deck's actual profile.
var genericFramingPatterns = []string{
	"typical commander", "average commander", "typical edh", "average edh",
	"average deck", "most decks", "decks usually", "a typical deck",
}

var negationWords = []string{"no ", "not ", "lacks", "without", "missing", "zero "}

// guardReasons applies the hallucination checks to each reason, rewriting
// violations rather than failing, then pads and trims to the 2-5 reason
// envelope. Never returns fewer than two reasons.
func guardReasons(reasons []string, in guardInput) []string {
	out := make([]string, 0, len(reasons))
	fallbackIdx := 0

	for _, reason := range reasons {
		switch {
		case namesCardOutsideHand(reason, in):
			out = append(out, profileSentence(in, &fallbackIdx))
		case contradictsFacts(reason, in.Facts):
			out = append(out, profileSentence(in, &fallbackIdx))
		case usesGenericFraming(reason):
			out = append(out, profileSentence(in, &fallbackIdx))
		default:
			out = append(out, truncateReason(reason))
		}
	}

	out = dedupe(out)
	for len(out) < minReasons {
		out = append(out, profileSentence(in, &fallbackIdx))
		out = dedupe(out)
		if fallbackIdx > 4 {
			break
		}
	}
	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}

// namesCardOutsideHand reports whether the reason cites a deck-list card
// that is not in the hand. The commander is always explainable: it is
// known in advance by definition.
func namesCardOutsideHand(reason string, in guardInput) bool {
	lower := strings.ToLower(reason)

	inHand := make(map[string]bool, len(in.Hand))
	for _, card := range in.Hand {
		inHand[strings.ToLower(card)] = true
	}
	commander := strings.ToLower(in.Commander)

	for name := range in.DeckNames {
		if inHand[name] || (commander != "" && name == commander) {
			continue
		}
		if len(name) >= 4 && strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// contradictsFacts checks the reason against the capability rule table and
// the shaky-mana table. A claim mentioning a capability the facts say is
// absent is a contradiction unless the sentence itself is negated.
func contradictsFacts(reason string, facts hand.Facts) bool {
	lower := strings.ToLower(reason)

	for _, rule := range capabilityRules {
		if rule.holds(facts) {
			continue
		}
		for _, p := range rule.patterns {
			if strings.Contains(lower, p) && !isNegated(lower) {
				return true
			}
		}
	}

	if facts.HandLandCount >= 3 && len(facts.ColorsAvailable) >= 2 {
		for _, p := range shakyManaPatterns {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}

	return false
}

func usesGenericFraming(reason string) bool {
	lower := strings.ToLower(reason)
	for _, p := range genericFramingPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isNegated(lower string) bool {
	for _, n := range negationWords {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// profileSentence generates a replacement reason that cites this deck's
// own profile. The index rotates templates so padding does not repeat.
func profileSentence(in guardInput, idx *int) string {
	sentences := []string{
		fmt.Sprintf("This %s deck runs a %.0f%% land base; weigh the hand against that baseline.",
			in.Profile.Archetype, in.Profile.LandPercent*100),
		fmt.Sprintf("With %d lands in hand, judge development against this deck's %s mulligan style.",
			in.Facts.HandLandCount, in.Profile.MulliganStyle),
		fmt.Sprintf("This deck's velocity score of %d sets how fast a start it needs.",
			in.Profile.VelocityScore),
		"Hold the hand to this deck's own profile, not an outside baseline.",
		fmt.Sprintf("This list plays %d tutors and %d fast mana; plan around its actual density.",
			in.Profile.TutorCount, in.Profile.FastManaCount),
	}

	s := sentences[*idx%len(sentences)]
	*idx++
	return truncateReason(s)
}

func truncateReason(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxReasonLength {
		cut := maxReasonLength - 3
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}

func dedupe(reasons []string) []string {
	seen := make(map[string]bool, len(reasons))
	out := reasons[:0]
	for _, r := range reasons {
		key := strings.ToLower(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// reconcile aligns the model's answer with the deterministic verdict: a
// confident disagreement caps the model's confidence and gets called out,
// deterministic uncertainty caps overconfidence, and the land-count floors
// are re-applied so the model can never talk its way out of a hopeless
// hand.
func reconcile(out *Advice, det eval.Result, facts hand.Facts, th policy.Thresholds) {
	detConfident := det.Confidence >= th.ModelOverrideConfidence && det.KeepBias != eval.BiasNeutral
	modelConfident := out.Confidence >= th.ModelOverrideConfidence

	disagrees := (det.KeepBias == eval.BiasKeep && out.Action == advice.ActionMulligan) ||
		(det.KeepBias == eval.BiasMulligan && out.Action == advice.ActionKeep)

	if detConfident && modelConfident && disagrees {
		if out.Confidence > th.DisagreementCap {
			out.Confidence = th.DisagreementCap
		}
		out.Reasons = append([]string{
			fmt.Sprintf("The deterministic check leaned %s at confidence %d; treat this call as contested.",
				det.KeepBias, det.Confidence),
		}, out.Reasons...)
		if len(out.Reasons) > maxReasons {
			out.Reasons = out.Reasons[:maxReasons]
		}
	}

	if len(det.UncertaintyReasons) > 0 && out.Confidence > 90 {
		out.Confidence = th.UncertaintyCap
		out.Warnings = append(out.Warnings, "confidence capped: the deterministic evaluation flagged uncertainty")
	}

	// Hard floors, identical to the gate's forced-mulligan rules.
	if facts.HandLandCount == 0 {
		out.Action = advice.ActionMulligan
		if out.Confidence < th.ZeroLandFloor {
			out.Confidence = th.ZeroLandFloor
		}
	} else if facts.HandLandCount == 1 && !facts.HasAcceleration() {
		out.Action = advice.ActionMulligan
		if out.Confidence < th.OneLandFloor {
			out.Confidence = th.OneLandFloor
		}
	}
}
