package profile

import (
	"testing"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cards"
)

// fakeKB maps card names straight to roles for deterministic tests.
type fakeKB map[string]cards.Role

func (f fakeKB) Role(name string) cards.Role {
	r := f[name]
	r.Known = true
	return r
}

func land() cards.Role        { return cards.Role{IsLand: true, ColorsProduced: []string{"G"}} }
func rampSpell() cards.Role   { return cards.Role{IsRamp: true} }
func interaction() cards.Role { return cards.Role{IsInteraction: true} }
func drawEngine() cards.Role  { return cards.Role{IsDrawEngine: true} }

func TestBuild_EmptyDeckIsUnknown(t *testing.T) {
	p := Build(nil, "", fakeKB{})
	if p.Archetype != ArchetypeUnknown {
		t.Errorf("Archetype = %v, want %v", p.Archetype, ArchetypeUnknown)
	}
	if p.MulliganStyle != StyleBalanced {
		t.Errorf("MulliganStyle = %v, want %v", p.MulliganStyle, StyleBalanced)
	}
}

func TestBuild_LandPercent(t *testing.T) {
	kb := fakeKB{"Forest": land(), "Grizzly Bears": {}}
	deck := []cards.DeckEntry{
		{Name: "Forest", Count: 36},
		{Name: "Grizzly Bears", Count: 63},
	}

	p := Build(deck, "", kb)
	got := p.LandPercent
	if got < 0.36 || got > 0.37 {
		t.Errorf("LandPercent = %v, want ~0.3636", got)
	}
}

func TestBuild_Archetypes(t *testing.T) {
	tests := []struct {
		name string
		deck []cards.DeckEntry
		kb   fakeKB
		want Archetype
	}{
		{
			name: "combo from fast mana plus tutors",
			deck: []cards.DeckEntry{
				{Name: "Mana Crypt", Count: 3},
				{Name: "Demonic Tutor", Count: 4},
				{Name: "Swamp", Count: 30},
				{Name: "Filler", Count: 62},
			},
			kb: fakeKB{
				"Mana Crypt":    {IsFastMana: true},
				"Demonic Tutor": {IsTutor: true},
				"Swamp":         {IsLand: true},
			},
			want: ArchetypeCombo,
		},
		{
			name: "control from interaction and draw",
			deck: []cards.DeckEntry{
				{Name: "Counterspell", Count: 12},
				{Name: "Rhystic Study", Count: 6},
				{Name: "Island", Count: 36},
				{Name: "Filler", Count: 45},
			},
			kb: fakeKB{
				"Counterspell":  interaction(),
				"Rhystic Study": drawEngine(),
				"Island":        land(),
			},
			want: ArchetypeControl,
		},
		{
			name: "ramp from acceleration density",
			deck: []cards.DeckEntry{
				{Name: "Cultivate", Count: 12},
				{Name: "Forest", Count: 38},
				{Name: "Filler", Count: 49},
			},
			kb: fakeKB{
				"Cultivate": rampSpell(),
				"Forest":    land(),
			},
			want: ArchetypeRamp,
		},
		{
			name: "midrange by default",
			deck: []cards.DeckEntry{
				{Name: "Forest", Count: 37},
				{Name: "Filler", Count: 62},
			},
			kb:   fakeKB{"Forest": land()},
			want: ArchetypeMidrange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.deck, "", tt.kb)
			if p.Archetype != tt.want {
				t.Errorf("Archetype = %v, want %v (profile %+v)", p.Archetype, tt.want, p)
			}
		})
	}
}

func TestBuild_MulliganStyle(t *testing.T) {
	comboDeck := []cards.DeckEntry{
		{Name: "Mana Crypt", Count: 4},
		{Name: "Demonic Tutor", Count: 5},
		{Name: "Swamp", Count: 30},
		{Name: "Filler", Count: 60},
	}
	kb := fakeKB{
		"Mana Crypt":    {IsFastMana: true},
		"Demonic Tutor": {IsTutor: true},
		"Swamp":         {IsLand: true},
	}

	if p := Build(comboDeck, "", kb); p.MulliganStyle != StyleAggressive {
		t.Errorf("combo deck MulliganStyle = %v, want %v", p.MulliganStyle, StyleAggressive)
	}
}

func TestBuild_IgnoresNonPositiveCounts(t *testing.T) {
	deck := []cards.DeckEntry{
		{Name: "Forest", Count: 0},
		{Name: "Island", Count: -2},
	}
	p := Build(deck, "", fakeKB{"Forest": land(), "Island": land()})
	if p.Archetype != ArchetypeUnknown {
		t.Errorf("all-zero deck should be unknown, got %v", p.Archetype)
	}
}
