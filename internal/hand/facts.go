// Package hand derives ground-truth facts and descriptive tags for one
// candidate opening hand. Facts are the single source of truth the rest of
// the pipeline, including the language model, is not allowed to contradict.
package hand

import (
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cards"
)

// Facts are boolean and categorical facts about a hand. Every true flag is
// justified by at least one card actually present in the hand.
type Facts struct {
	HandLandCount  int  `json:"hand_land_count"`
	HasRamp        bool `json:"has_ramp"`
	HasTutor       bool `json:"has_tutor"`
	HasDrawEngine  bool `json:"has_draw_engine"`
	HasInteraction bool `json:"has_interaction"`
	HasProtection  bool `json:"has_protection"`
	HasFastMana    bool `json:"has_fast_mana"`

	// ColorsAvailable is the set of color symbols the hand's mana sources
	// can produce, in WUBRG order.
	ColorsAvailable []string `json:"colors_available"`
}

var colorOrder = []string{"W", "U", "B", "R", "G"}

// ExtractFacts aggregates per-card roles into hand facts.
func ExtractFacts(handCards []string, kb cards.Knowledge) Facts {
	var facts Facts
	seen := make(map[string]bool, 5)

	for _, name := range handCards {
		role := kb.Role(name)

		if role.IsLand {
			facts.HandLandCount++
		}
		facts.HasRamp = facts.HasRamp || role.IsRamp
		facts.HasTutor = facts.HasTutor || role.IsTutor
		facts.HasDrawEngine = facts.HasDrawEngine || role.IsDrawEngine
		facts.HasInteraction = facts.HasInteraction || role.IsInteraction
		facts.HasProtection = facts.HasProtection || role.IsProtection
		facts.HasFastMana = facts.HasFastMana || role.IsFastMana

		// Only mana sources contribute to available colors.
		if role.IsLand || role.IsRamp || role.IsFastMana {
			for _, c := range role.ColorsProduced {
				seen[c] = true
			}
		}
	}

	for _, c := range colorOrder {
		if seen[c] {
			facts.ColorsAvailable = append(facts.ColorsAvailable, c)
		}
	}

	return facts
}

// HasColor reports whether the hand can produce the given color.
func (f Facts) HasColor(color string) bool {
	for _, c := range f.ColorsAvailable {
		if c == color {
			return true
		}
	}
	return false
}

// HasAcceleration reports whether the hand holds any mana acceleration.
func (f Facts) HasAcceleration() bool {
	return f.HasRamp || f.HasFastMana
}

// CoversColors reports whether the hand can produce every color in want.
func (f Facts) CoversColors(want []string) bool {
	for _, c := range want {
		if !f.HasColor(c) {
			return false
		}
	}
	return true
}
