package hand

import (
	"fmt"
	"strings"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/profile"
)

// Tags produces a small ordered list of descriptive tags for a hand. Tags
// exist purely as extra grounding context for the model prompt; they are
// never authoritative and never feed the decision itself.
func Tags(handCards []string, facts Facts, deck profile.DeckProfile, commander string) []string {
	tags := make([]string, 0, 8)

	tags = append(tags, fmt.Sprintf("%d-land hand", facts.HandLandCount))

	if facts.HasFastMana {
		tags = append(tags, "fast-mana start")
	} else if facts.HasRamp {
		tags = append(tags, "ramp available")
	}

	if facts.HasTutor {
		tags = append(tags, "tutor in hand")
	}
	if facts.HasDrawEngine {
		tags = append(tags, "card advantage engine")
	}
	if facts.HasInteraction {
		tags = append(tags, "holds interaction")
	}
	if facts.HasProtection {
		tags = append(tags, "holds protection")
	}

	if len(facts.ColorsAvailable) > 0 {
		tags = append(tags, fmt.Sprintf("produces %s", strings.Join(facts.ColorsAvailable, "")))
	} else {
		tags = append(tags, "produces no colored mana")
	}

	if deck.Archetype != profile.ArchetypeUnknown {
		tags = append(tags, fmt.Sprintf("%s deck, %s mulligan style", deck.Archetype, deck.MulliganStyle))
	}

	if commander != "" && facts.HandLandCount >= 3 {
		tags = append(tags, fmt.Sprintf("developing toward %s", commander))
	}

	return tags
}
