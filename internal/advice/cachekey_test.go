package advice

import (
	"testing"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/cards"
)

func baseRequest() *Request {
	return &Request{
		ModelTier:     "mini",
		Format:        "commander",
		PlayDraw:      "play",
		MulliganCount: 0,
		Hand:          []string{"Island", "Swamp", "Sol Ring"},
		Deck: Deck{
			Commander: "Talrand, Sky Summoner",
			Cards: []cards.DeckEntry{
				{Name: "Island", Count: 30},
				{Name: "Swamp", Count: 6},
				{Name: "Sol Ring", Count: 1},
			},
		},
	}
}

func TestCacheKey_Stable(t *testing.T) {
	a := CacheKey(baseRequest())
	b := CacheKey(baseRequest())
	if a != b {
		t.Errorf("identical requests produced different keys: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("key %q is not a sha256 hex digest", a)
	}
}

func TestCacheKey_OrderInsensitive(t *testing.T) {
	shuffled := baseRequest()
	shuffled.Hand = []string{"Sol Ring", "Island", "Swamp"}
	shuffled.Deck.Cards = []cards.DeckEntry{
		{Name: "Sol Ring", Count: 1},
		{Name: "Swamp", Count: 6},
		{Name: "Island", Count: 30},
	}

	if CacheKey(baseRequest()) != CacheKey(shuffled) {
		t.Error("hand/deck ordering must not change the key")
	}
}

func TestCacheKey_MergesDuplicateDeckLines(t *testing.T) {
	split := baseRequest()
	split.Deck.Cards = []cards.DeckEntry{
		{Name: "Island", Count: 20},
		{Name: "island", Count: 10},
		{Name: "Swamp", Count: 6},
		{Name: "Sol Ring", Count: 1},
	}

	if CacheKey(baseRequest()) != CacheKey(split) {
		t.Error("split deck lines of the same card must hash identically")
	}
}

func TestCacheKey_SensitiveToParams(t *testing.T) {
	base := CacheKey(baseRequest())

	variants := []func(*Request){
		func(r *Request) { r.PlayDraw = "draw" },
		func(r *Request) { r.MulliganCount = 1 },
		func(r *Request) { r.ModelTier = "standard" },
		func(r *Request) { r.Format = "standard" },
		func(r *Request) { r.Hand = append(r.Hand, "Ponder") },
		func(r *Request) { r.Deck.Commander = "Kess, Dissident Mage" },
	}

	for i, mutate := range variants {
		r := baseRequest()
		mutate(r)
		if CacheKey(r) == base {
			t.Errorf("variant %d should change the key", i)
		}
	}
}

func TestCacheKey_IgnoresCaller(t *testing.T) {
	withCaller := baseRequest()
	withCaller.Caller = CallerContext{UserID: "u-123", SessionID: "s-456", Entitled: true}

	if CacheKey(baseRequest()) != CacheKey(withCaller) {
		t.Error("caller identity must not affect the key")
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{"valid", func(r *Request) {}, false},
		{"empty hand", func(r *Request) { r.Hand = nil }, true},
		{"oversized hand", func(r *Request) { r.Hand = make([]string, 8) }, true},
		{"empty card name", func(r *Request) { r.Hand = []string{""} }, true},
		{"negative mulligans", func(r *Request) { r.MulliganCount = -1 }, true},
		{"negative deck count", func(r *Request) { r.Deck.Cards[0].Count = -4 }, true},
		{"bad play_draw", func(r *Request) { r.PlayDraw = "sideways" }, true},
		{"empty play_draw defaults to play", func(r *Request) { r.PlayDraw = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseRequest()
			tt.mutate(r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequest_ValidateDefaultsPlayDraw(t *testing.T) {
	r := baseRequest()
	r.PlayDraw = ""
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !r.OnPlay() {
		t.Error("empty play_draw should default to on the play")
	}
}
