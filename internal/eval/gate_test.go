package eval

import (
	"testing"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/hand"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/policy"
)

func TestDecide_PriorityTable(t *testing.T) {
	th := policy.DefaultThresholds()

	tests := []struct {
		name       string
		res        Result
		facts      hand.Facts
		wantBand   Band
		wantAction GateAction
	}{
		{
			name:       "zero lands skips the model",
			res:        Result{KeepBias: BiasMulligan, Confidence: th.ZeroLandConfidence},
			facts:      hand.Facts{HandLandCount: 0},
			wantBand:   BandDeterministicStrong,
			wantAction: ActionSkipLLM,
		},
		{
			name:       "one land no acceleration skips the model",
			res:        Result{KeepBias: BiasMulligan, Confidence: th.OneLandConfidence},
			facts:      hand.Facts{HandLandCount: 1},
			wantBand:   BandDeterministicStrong,
			wantAction: ActionSkipLLM,
		},
		{
			name:       "one land with ramp escalates",
			res:        Result{KeepBias: BiasNeutral, Confidence: 50},
			facts:      hand.Facts{HandLandCount: 1, HasRamp: true},
			wantBand:   BandNeedsAI,
			wantAction: ActionCallLLM,
		},
		{
			name:       "confident non-neutral with no uncertainty skips",
			res:        Result{KeepBias: BiasKeep, Confidence: 91},
			facts:      hand.Facts{HandLandCount: 4},
			wantBand:   BandDeterministicStrong,
			wantAction: ActionSkipLLM,
		},
		{
			name:       "high confidence with uncertainty still escalates",
			res:        Result{KeepBias: BiasKeep, Confidence: 95, UncertaintyReasons: []string{"deck profile is unknown"}},
			facts:      hand.Facts{HandLandCount: 4},
			wantBand:   BandNeedsAI,
			wantAction: ActionCallLLM,
		},
		{
			name:       "neutral bias escalates regardless of confidence",
			res:        Result{KeepBias: BiasNeutral, Confidence: 90},
			facts:      hand.Facts{HandLandCount: 3},
			wantBand:   BandNeedsAI,
			wantAction: ActionCallLLM,
		},
		{
			name:       "low confidence escalates",
			res:        Result{KeepBias: BiasKeep, Confidence: 70},
			facts:      hand.Facts{HandLandCount: 3},
			wantBand:   BandNeedsAI,
			wantAction: ActionCallLLM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.res, tt.facts, th)
			if got.Band != tt.wantBand || got.Action != tt.wantAction {
				t.Errorf("Decide() = %+v, want band %v action %v", got, tt.wantBand, tt.wantAction)
			}
			if got.Reason == "" {
				t.Error("Reason must always be populated")
			}
		})
	}
}

// Same evaluation in, same decision out.
func TestDecide_Pure(t *testing.T) {
	th := policy.DefaultThresholds()
	res := Result{KeepBias: BiasKeep, Confidence: 88}
	facts := hand.Facts{HandLandCount: 3}

	first := Decide(res, facts, th)
	for i := 0; i < 10; i++ {
		if got := Decide(res, facts, th); got != first {
			t.Fatalf("Decide is not pure: %+v vs %+v", got, first)
		}
	}
}
