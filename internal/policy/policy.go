// Package policy centralizes the product-tuned constants of the advice
// pipeline: confidence thresholds, caps and floors, and the mapping from
// requested model tier to a concrete model. The numeric values are tuned
// product decisions, not derived quantities; changing them is a product
// call, so they live in one injectable struct instead of being scattered
// as literals.
package policy

// Thresholds holds the confidence thresholds, caps and floors used by the
// evaluator, the gate and the hallucination guard.
type Thresholds struct {
	// SkipConfidence is the minimum evaluator confidence at which a
	// non-neutral bias answers without a model call.
	SkipConfidence int

	// ZeroLandConfidence is the confidence of the forced mulligan on a
	// zero-land hand.
	ZeroLandConfidence int

	// OneLandConfidence is the confidence of the forced mulligan on a
	// one-land hand without acceleration.
	OneLandConfidence int

	// DisagreementCap caps model confidence when it confidently
	// contradicts a confident deterministic bias.
	DisagreementCap int

	// UncertaintyCap caps model confidence when the deterministic
	// evaluator flagged uncertainty but the model reports >90.
	UncertaintyCap int

	// ZeroLandFloor and OneLandFloor re-apply the land-count floors to a
	// model-backed answer.
	ZeroLandFloor int
	OneLandFloor  int

	// ModelOverrideConfidence is the model confidence at which its
	// disagreement with the deterministic bias counts as confident.
	ModelOverrideConfidence int

	// BoundaryWidth is how close (in score points) a hand may sit to a
	// bias threshold before the evaluator flags uncertainty.
	BoundaryWidth float64
}

// DefaultThresholds returns the tuned values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SkipConfidence:          85,
		ZeroLandConfidence:      95,
		OneLandConfidence:       78,
		DisagreementCap:         60,
		UncertaintyCap:          75,
		ZeroLandFloor:           85,
		OneLandFloor:            75,
		ModelOverrideConfidence: 75,
		BoundaryWidth:           8,
	}
}

// Models maps requested tiers to concrete model names and fixes the
// fallback model used when the primary call fails.
type Models struct {
	Tiers       map[string]string
	DefaultTier string
	Fallback    string
}

// DefaultModels returns the shipped tier table.
func DefaultModels() Models {
	return Models{
		Tiers: map[string]string{
			"mini":     "gpt-4o-mini",
			"standard": "gpt-4o",
			"max":      "gpt-4.1",
		},
		DefaultTier: "mini",
		Fallback:    "gpt-4o-mini",
	}
}

// Resolve maps a requested tier and the caller's entitlement to a concrete
// model. Non-entitled callers are always downgraded to the default tier;
// unknown tiers resolve to the default tier.
func (m Models) Resolve(requestedTier string, entitled bool) string {
	tier := requestedTier
	if !entitled || tier == "" {
		tier = m.DefaultTier
	}

	model, ok := m.Tiers[tier]
	if !ok {
		model = m.Tiers[m.DefaultTier]
	}
	return model
}
