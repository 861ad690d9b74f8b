package advisor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/eval"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/profile"
)

func guardFixture() guardInput {
	return guardInput{
		Hand:      []string{"Island", "Swamp", "Counterspell"},
		Commander: "Talrand, Sky Summoner",
		DeckNames: map[string]bool{
			"island":               true,
			"swamp":                true,
			"counterspell":         true,
			"rhystic study":        true,
			"talrand, sky summoner": true,
		},
		Facts: hand.Facts{
			HandLandCount:   2,
			HasInteraction:  true,
			ColorsAvailable: []string{"U", "B"},
		},
		Profile: profile.DeckProfile{
			Archetype:     profile.ArchetypeControl,
			MulliganStyle: profile.StylePatient,
			LandPercent:   0.36,
			VelocityScore: 4,
		},
	}
}

func TestGuardReasons_RewritesDeckCardNotInHand(t *testing.T) {
	in := guardFixture()
	reasons := guardReasons([]string{
		"Rhystic Study will bury your opponents in cards.",
		"Counterspell holds up interaction for the early turns.",
	}, in)

	for _, r := range reasons {
		if strings.Contains(strings.ToLower(r), "rhystic study") {
			t.Errorf("deck card outside hand survived the guard: %q", r)
		}
	}
	found := false
	for _, r := range reasons {
		if strings.Contains(r, "Counterspell") {
			found = true
		}
	}
	if !found {
		t.Errorf("legitimate hand-card reason was lost: %v", reasons)
	}
}

func TestGuardReasons_CommanderReferenceIsAllowed(t *testing.T) {
	in := guardFixture()
	reasons := guardReasons([]string{
		"Talrand, Sky Summoner comes down on curve with this mana.",
		"Counterspell holds up interaction.",
	}, in)

	found := false
	for _, r := range reasons {
		if strings.Contains(r, "Talrand") {
			found = true
		}
	}
	if !found {
		t.Errorf("commander reference should survive: %v", reasons)
	}
}

func TestGuardReasons_RewritesContradictedCapabilities(t *testing.T) {
	in := guardFixture() // HasRamp=false, HasTutor=false

	tests := []struct {
		name   string
		reason string
	}{
		{"ramp claim", "The hand has ramp to get ahead."},
		{"tutor claim", "A tutor finds your win condition."},
		{"draw claim", "Strong card advantage keeps the hand flowing."},
		{"fast mana claim", "Fast mana enables an explosive start."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := guardReasons([]string{tt.reason, "Counterspell holds up interaction."}, in)
			for _, r := range out {
				if r == tt.reason {
					t.Errorf("contradicted claim survived: %q", r)
				}
			}
		})
	}
}

func TestGuardReasons_NegatedClaimsSurvive(t *testing.T) {
	in := guardFixture()
	reason := "The hand has no ramp, so it develops on lands alone."
	out := guardReasons([]string{reason, "Counterspell holds up interaction."}, in)

	found := false
	for _, r := range out {
		if r == reason {
			found = true
		}
	}
	if !found {
		t.Errorf("negated claim consistent with facts was rewritten: %v", out)
	}
}

func TestGuardReasons_RewritesShakyManaWithStableBase(t *testing.T) {
	in := guardFixture()
	in.Facts.HandLandCount = 3

	reason := "The mana is shaky here."
	out := guardReasons([]string{reason, "Counterspell holds up interaction."}, in)
	for _, r := range out {
		if r == reason {
			t.Errorf("shaky-mana claim survived against 3 lands 2 colors: %v", out)
		}
	}
}

func TestGuardReasons_RewritesGenericFraming(t *testing.T) {
	in := guardFixture()
	reason := "A typical Commander deck would keep this."
	out := guardReasons([]string{reason, "Counterspell holds up interaction."}, in)

	for _, r := range out {
		if r == reason {
			t.Errorf("generic framing survived: %v", out)
		}
	}
	// Replacement must cite this deck's profile.
	cited := false
	for _, r := range out {
		if strings.Contains(r, "control") || strings.Contains(r, "36%") || strings.Contains(r, "velocity") {
			cited = true
		}
	}
	if !cited {
		t.Errorf("replacement does not cite the deck profile: %v", out)
	}
}

func TestGuardReasons_PadsToMinimum(t *testing.T) {
	in := guardFixture()
	out := guardReasons([]string{"Rhystic Study is great."}, in)
	if len(out) < 2 {
		t.Errorf("got %d reasons, want >= 2: %v", len(out), out)
	}
}

func TestGuardReasons_CapsAtMaximum(t *testing.T) {
	in := guardFixture()
	many := []string{
		"Counterspell holds up interaction.",
		"Two lands on a patient deck is workable.",
		"Island produces blue on time.",
		"Swamp covers the second color.",
		"The curve here is low.",
		"Spare reason six.",
		"Spare reason seven.",
	}
	out := guardReasons(many, in)
	if len(out) > 5 {
		t.Errorf("got %d reasons, want <= 5", len(out))
	}
}

func TestGuardReasons_TruncatesLongReasons(t *testing.T) {
	in := guardFixture()
	long := "Counterspell " + strings.Repeat("really ", 40) + "matters."
	out := guardReasons([]string{long, "Two lands is fine here."}, in)
	for _, r := range out {
		if len(r) > 140 {
			t.Errorf("reason exceeds 140 chars: %d", len(r))
		}
	}
}

func TestTruncateReason_KeepsRunesWhole(t *testing.T) {
	// Pad so the cut point lands inside a multi-byte rune.
	long := strings.Repeat("x", 135) + "héllo"
	got := truncateReason(long)
	if len(got) > 140 {
		t.Errorf("truncated reason is %d bytes, want <= 140", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated reason missing ellipsis: %q", got)
	}
}

func TestReconcile_ConfidentDisagreementCapped(t *testing.T) {
	th := policy.DefaultThresholds()
	out := &Advice{Action: advice.ActionMulligan, Confidence: 90, Reasons: []string{"a", "b"}}
	det := eval.Result{KeepBias: eval.BiasKeep, Confidence: 88}

	reconcile(out, det, hand.Facts{HandLandCount: 3}, th)

	if out.Confidence != th.DisagreementCap {
		t.Errorf("Confidence = %d, want %d", out.Confidence, th.DisagreementCap)
	}
	if !strings.Contains(out.Reasons[0], "deterministic") {
		t.Errorf("disagreement reason not prepended: %v", out.Reasons)
	}
}

func TestReconcile_AgreementNotCapped(t *testing.T) {
	th := policy.DefaultThresholds()
	out := &Advice{Action: advice.ActionKeep, Confidence: 90, Reasons: []string{"a", "b"}}
	det := eval.Result{KeepBias: eval.BiasKeep, Confidence: 88}

	reconcile(out, det, hand.Facts{HandLandCount: 3}, th)

	if out.Confidence != 90 {
		t.Errorf("Confidence = %d, agreement should not be capped", out.Confidence)
	}
}

func TestReconcile_UncertaintyCapsOverconfidence(t *testing.T) {
	th := policy.DefaultThresholds()
	out := &Advice{Action: advice.ActionKeep, Confidence: 97, Reasons: []string{"a", "b"}}
	det := eval.Result{KeepBias: eval.BiasNeutral, Confidence: 50, UncertaintyReasons: []string{"deck profile is unknown"}}

	reconcile(out, det, hand.Facts{HandLandCount: 3}, th)

	if out.Confidence != th.UncertaintyCap {
		t.Errorf("Confidence = %d, want %d", out.Confidence, th.UncertaintyCap)
	}
	if len(out.Warnings) == 0 {
		t.Error("expected a warning about the cap")
	}
}

func TestReconcile_ZeroLandFloorOverridesModel(t *testing.T) {
	th := policy.DefaultThresholds()
	out := &Advice{Action: advice.ActionKeep, Confidence: 95, Reasons: []string{"a", "b"}}
	det := eval.Result{KeepBias: eval.BiasMulligan, Confidence: th.ZeroLandConfidence}

	reconcile(out, det, hand.Facts{HandLandCount: 0}, th)

	if out.Action != advice.ActionMulligan {
		t.Errorf("Action = %v, zero lands must force MULLIGAN", out.Action)
	}
	if out.Confidence < th.ZeroLandFloor {
		t.Errorf("Confidence = %d, want >= %d", out.Confidence, th.ZeroLandFloor)
	}
}

func TestReconcile_OneLandFloor(t *testing.T) {
	th := policy.DefaultThresholds()
	out := &Advice{Action: advice.ActionKeep, Confidence: 40, Reasons: []string{"a", "b"}}
	det := eval.Result{KeepBias: eval.BiasMulligan, Confidence: th.OneLandConfidence}

	reconcile(out, det, hand.Facts{HandLandCount: 1}, th)

	if out.Action != advice.ActionMulligan {
		t.Errorf("Action = %v, want MULLIGAN", out.Action)
	}
	if out.Confidence < th.OneLandFloor {
		t.Errorf("Confidence = %d, want >= %d", out.Confidence, th.OneLandFloor)
	}
}

func TestReconcile_OneLandWithRampNotForced(t *testing.T) {
	th := policy.DefaultThresholds()
	out := &Advice{Action: advice.ActionKeep, Confidence: 80, Reasons: []string{"a", "b"}}
	det := eval.Result{KeepBias: eval.BiasNeutral, Confidence: 50}

	reconcile(out, det, hand.Facts{HandLandCount: 1, HasRamp: true}, th)

	if out.Action != advice.ActionKeep {
		t.Errorf("Action = %v, one land with ramp should not be forced", out.Action)
	}
}
