// Package cards provides the card-knowledge collaborator for the advice
// pipeline: a lookup from card name to the functional roles the pipeline
// reasons about (land, ramp, tutor, draw engine, interaction, protection,
// fast mana) and the colors the card can produce.
package cards

// Role describes the functional roles of a single card.
type Role struct {
	IsLand         bool     `json:"is_land"`
	IsRamp         bool     `json:"is_ramp"`
	IsTutor        bool     `json:"is_tutor"`
	IsDrawEngine   bool     `json:"is_draw_engine"`
	IsInteraction  bool     `json:"is_interaction"`
	IsProtection   bool     `json:"is_protection"`
	IsFastMana     bool     `json:"is_fast_mana"`
	ColorsProduced []string `json:"colors_produced,omitempty"`

	// Known reports whether the card was found in the knowledge base
	// (as opposed to falling back to name heuristics).
	Known bool `json:"-"`
}

// Knowledge resolves card names to roles. Implementations must be
// side-effect-free from the caller's point of view and safe for
// concurrent use.
type Knowledge interface {
	Role(name string) Role
}

// ProducesColor reports whether the card can produce the given color symbol.
func (r Role) ProducesColor(color string) bool {
	for _, c := range r.ColorsProduced {
		if c == color {
			return true
		}
	}
	return false
}

// IsAcceleration reports whether the card speeds up mana development.
func (r Role) IsAcceleration() bool {
	return r.IsRamp || r.IsFastMana
}

// DeckEntry is one line of a deck list: a card name with a count.
type DeckEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
