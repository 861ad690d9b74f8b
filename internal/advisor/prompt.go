package advisor

import (
	"fmt"
	"strings"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/eval"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/llm"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/profile"
)

// promptInput is everything the prompt builder may reference.
type promptInput struct {
	Hand          []string
	Commander     string
	Format        string
	PlayDraw      string
	MulliganCount int
	Profile       profile.DeckProfile
	Facts         hand.Facts
	Tags          []string
	Eval          eval.Result
}

const systemPromptHeader = `You are a mulligan coach for a card game. You judge one opening hand against one specific deck.

Rules you must follow:
- The HAND FACTS below are ground truth. Never claim the hand has ramp, tutors, card draw, interaction, protection, or fast mana unless the matching fact is true.
- Only reference cards that are actually in the hand.
- Never appeal to "typical" or "average" decks. Reason only from THIS deck's profile.
- The deterministic verdict below is your policy anchor. You may disagree with it only by citing a specific, falsifiable observation about this hand.
- Respond with a single JSON object, no prose around it, shaped as:
  {"action": "KEEP" or "MULLIGAN", "confidence": 0-100, "reasons": ["...", "..."], "suggested_line": "...", "depends_on": ["..."]}
- Give 2 to 5 reasons, each under 140 characters, each citing a hand card or this deck's profile.`

// buildMessages assembles the constrained prompt.
func buildMessages(in promptInput) []llm.Message {
	var sys strings.Builder
	sys.WriteString(systemPromptHeader)
	sys.WriteString("\n\nDECK PROFILE (authoritative):\n")
	fmt.Fprintf(&sys, "- archetype: %s\n", in.Profile.Archetype)
	fmt.Fprintf(&sys, "- velocity score: %d\n", in.Profile.VelocityScore)
	fmt.Fprintf(&sys, "- mulligan style: %s\n", in.Profile.MulliganStyle)
	fmt.Fprintf(&sys, "- land percent: %.0f%%\n", in.Profile.LandPercent*100)
	fmt.Fprintf(&sys, "- fast mana count: %d, tutor count: %d\n", in.Profile.FastManaCount, in.Profile.TutorCount)
	if len(in.Profile.Colors) > 0 {
		fmt.Fprintf(&sys, "- deck colors: %s\n", strings.Join(in.Profile.Colors, ""))
	}

	sys.WriteString("\nHAND FACTS (ground truth, do not contradict):\n")
	fmt.Fprintf(&sys, "- lands in hand: %d\n", in.Facts.HandLandCount)
	fmt.Fprintf(&sys, "- has ramp: %t\n", in.Facts.HasRamp)
	fmt.Fprintf(&sys, "- has tutor: %t\n", in.Facts.HasTutor)
	fmt.Fprintf(&sys, "- has draw engine: %t\n", in.Facts.HasDrawEngine)
	fmt.Fprintf(&sys, "- has interaction: %t\n", in.Facts.HasInteraction)
	fmt.Fprintf(&sys, "- has protection: %t\n", in.Facts.HasProtection)
	fmt.Fprintf(&sys, "- has fast mana: %t\n", in.Facts.HasFastMana)
	fmt.Fprintf(&sys, "- colors available: %s\n", strings.Join(in.Facts.ColorsAvailable, ""))

	fmt.Fprintf(&sys, "\nDETERMINISTIC VERDICT (policy anchor): %s at confidence %d.\n", in.Eval.KeepBias, in.Eval.Confidence)
	if len(in.Eval.UncertaintyReasons) > 0 {
		fmt.Fprintf(&sys, "It escalated to you because: %s.\n", strings.Join(in.Eval.UncertaintyReasons, "; "))
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Hand: %s\n", strings.Join(in.Hand, ", "))
	if in.Commander != "" {
		fmt.Fprintf(&user, "Commander: %s\n", in.Commander)
	}
	if in.Format != "" {
		fmt.Fprintf(&user, "Format: %s\n", in.Format)
	}
	fmt.Fprintf(&user, "On the %s, mulligans taken: %d\n", in.PlayDraw, in.MulliganCount)
	if len(in.Tags) > 0 {
		fmt.Fprintf(&user, "Context tags: %s\n", strings.Join(in.Tags, "; "))
	}
	user.WriteString("Keep or mulligan?")

	return []llm.Message{
		{Role: "system", Content: sys.String()},
		{Role: "user", Content: user.String()},
	}
}
