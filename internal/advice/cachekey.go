package advice

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// cacheKeyPayload is the canonical identity of an advice problem. It must
// never contain timestamps, caller identity, or anything else
// non-deterministic: identical (deck, hand, params) always hash to the
// same key.
type cacheKeyPayload struct {
	Deck          []deckKeyEntry `json:"deck"`
	Commander     string         `json:"commander"`
	Hand          []string       `json:"hand"`
	PlayDraw      string         `json:"play_draw"`
	MulliganCount int            `json:"mulligan_count"`
	ModelTier     string         `json:"model_tier"`
	Format        string         `json:"format"`
}

type deckKeyEntry struct {
	Name  string `json:"n"`
	Count int    `json:"c"`
}

// CacheKey derives the content-addressed cache key for a request. Deck
// entries are merged and sorted so list order and duplicate lines do not
// change the key; the hand is sorted because it is a multiset, not a
// sequence.
func CacheKey(r *Request) string {
	merged := make(map[string]int, len(r.Deck.Cards))
	for _, entry := range r.Deck.Cards {
		if entry.Count > 0 {
			merged[normalizeKeyName(entry.Name)] += entry.Count
		}
	}

	deck := make([]deckKeyEntry, 0, len(merged))
	for name, count := range merged {
		deck = append(deck, deckKeyEntry{Name: name, Count: count})
	}
	sort.Slice(deck, func(i, j int) bool { return deck[i].Name < deck[j].Name })

	hand := make([]string, len(r.Hand))
	for i, name := range r.Hand {
		hand[i] = normalizeKeyName(name)
	}
	sort.Strings(hand)

	payload := cacheKeyPayload{
		Deck:          deck,
		Commander:     normalizeKeyName(r.Deck.Commander),
		Hand:          hand,
		PlayDraw:      r.PlayDraw,
		MulliganCount: r.MulliganCount,
		ModelTier:     r.ModelTier,
		Format:        r.Format,
	}

	// Marshal cannot fail on this shape.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func normalizeKeyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
