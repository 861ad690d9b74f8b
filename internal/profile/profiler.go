// Package profile derives a compact statistical profile of a deck from its
// card list. The profile is recomputed per request and is purely a function
// of the list plus the commander name.
package profile

import (
	"math"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cards"
)

// Archetype is a coarse label for a deck's overall strategy.
type Archetype string

const (
	ArchetypeUnknown  Archetype = "unknown"
	ArchetypeCombo    Archetype = "combo"
	ArchetypeControl  Archetype = "control"
	ArchetypeRamp     Archetype = "ramp"
	ArchetypeMidrange Archetype = "midrange"
)

// MulliganStyle describes how aggressively a deck should mulligan.
type MulliganStyle string

const (
	// StyleAggressive decks need action early and accept worse average
	// hands in exchange for upside.
	StyleAggressive MulliganStyle = "aggressive"
	StyleBalanced   MulliganStyle = "balanced"
	// StylePatient decks can keep slower hands.
	StylePatient MulliganStyle = "patient"
)

// DeckProfile is the derived statistical profile of a deck.
type DeckProfile struct {
	Archetype     Archetype     `json:"archetype"`
	VelocityScore int           `json:"velocity_score"`
	MulliganStyle MulliganStyle `json:"mulligan_style"`
	LandPercent   float64       `json:"land_percent"`
	FastManaCount int           `json:"fast_mana_count"`
	TutorCount    int           `json:"tutor_count"`

	// Colors is the set of color symbols the deck's mana base produces,
	// in WUBRG order. It stands in for the commander's color identity
	// when judging whether a hand's colors suffice.
	Colors []string `json:"colors"`

	// Densities per 100 cards, used by the evaluator's weighting.
	RampDensity        float64 `json:"ramp_density"`
	DrawDensity        float64 `json:"draw_density"`
	InteractionDensity float64 `json:"interaction_density"`
}

// Unknown is the profile returned for an empty deck list.
func Unknown() DeckProfile {
	return DeckProfile{
		Archetype:     ArchetypeUnknown,
		MulliganStyle: StyleBalanced,
	}
}

// Build derives a DeckProfile from the deck list. Empty lists yield the
// unknown profile rather than an error.
func Build(deck []cards.DeckEntry, commander string, kb cards.Knowledge) DeckProfile {
	total := 0
	var lands, ramp, tutors, fastMana, draw, interaction int
	colorsSeen := make(map[string]bool, 5)

	for _, entry := range deck {
		if entry.Count <= 0 {
			continue
		}
		total += entry.Count

		role := kb.Role(entry.Name)
		if role.IsLand || role.IsRamp || role.IsFastMana {
			for _, c := range role.ColorsProduced {
				colorsSeen[c] = true
			}
		}
		if role.IsLand {
			lands += entry.Count
		}
		if role.IsRamp {
			ramp += entry.Count
		}
		if role.IsTutor {
			tutors += entry.Count
		}
		if role.IsFastMana {
			fastMana += entry.Count
		}
		if role.IsDrawEngine {
			draw += entry.Count
		}
		if role.IsInteraction {
			interaction += entry.Count
		}
	}

	if total == 0 {
		return Unknown()
	}

	per100 := 100.0 / float64(total)
	var colors []string
	for _, c := range []string{"W", "U", "B", "R", "G"} {
		if colorsSeen[c] {
			colors = append(colors, c)
		}
	}

	p := DeckProfile{
		Colors:             colors,
		LandPercent:        float64(lands) / float64(total),
		FastManaCount:      fastMana,
		TutorCount:         tutors,
		RampDensity:        float64(ramp) * per100,
		DrawDensity:        float64(draw) * per100,
		InteractionDensity: float64(interaction) * per100,
	}

	// Velocity: fast mana is worth far more than ordinary ramp because it
	// converts opening hands directly into early turns.
	p.VelocityScore = int(math.Round(float64(fastMana)*5.0*per100 + p.RampDensity*2.0 + float64(tutors)*per100))

	p.Archetype = classify(p)
	p.MulliganStyle = styleFor(p.Archetype, p.VelocityScore)

	return p
}

// classify buckets the deck by resource densities. Thresholds are tuned
// for 60 and 99 card lists expressed as per-100 densities.
func classify(p DeckProfile) Archetype {
	tutorDensity := float64(p.TutorCount)
	fastDensity := float64(p.FastManaCount)

	switch {
	case fastDensity >= 3 && tutorDensity >= 3:
		return ArchetypeCombo
	case p.InteractionDensity >= 10 && p.DrawDensity >= 5:
		return ArchetypeControl
	case p.RampDensity >= 10:
		return ArchetypeRamp
	default:
		return ArchetypeMidrange
	}
}

func styleFor(a Archetype, velocity int) MulliganStyle {
	switch {
	case a == ArchetypeCombo || velocity >= 25:
		return StyleAggressive
	case a == ArchetypeControl:
		return StylePatient
	default:
		return StyleBalanced
	}
}
