package selector

// Weights centralizes every confidence constant so scoring can be tuned and
// tested independently of strategy logic. Values live in [0,1]; anything
// below MinConfidence never leaves the aggregator.
type Weights struct {
	// Aggregator contract.
	MinConfidence float64
	MaxCandidates int

	// Test attributes rank below accessibility-first signals by policy.
	TestAttribute float64

	// Deliberate, non-generated element ids.
	ID float64

	// Playwright-native locators.
	NativeRoleAriaName float64 // role + aria-label name
	NativeRoleTextName float64 // role + text-derived name
	NativeRole         float64
	NativeLabel        float64
	NativeTestID       float64
	NativeText         float64
	NativePlaceholder  float64
	NativeTitle        float64

	// Semantic/ARIA CSS selectors.
	AriaRoleLabel float64 // role + aria-label combo
	AriaRoleName  float64 // role + name attribute
	AriaLabel     float64
	AriaRoleTag   float64

	// Whitelisted stable attributes.
	StableAttr     float64
	StableAttrName float64 // name/for bind tighter than the rest
	VisibilityBump float64

	// Relational anchors, by anchor quality.
	AnchorStableID     float64
	AnchorAriaLabel    float64
	AnchorLandmark     float64
	AnchorSemanticRole float64
	AnchorComponent    float64
	AnchorSemanticTag  float64
	// Per-derivation penalties at decreasing specificity.
	AnchorScopedPenalty   float64
	AnchorRolePenalty     float64
	AnchorTextPenalty     float64
	AnchorFullPathPenalty float64

	// Layout strategy.
	LayoutState   float64
	LayoutVisible float64
	LayoutSpatial float64

	// Combined multi-signal fusion.
	CombinedBase        float64
	CombinedCap         float64
	CombinedRole        float64
	CombinedAriaLabel   float64
	CombinedName        float64
	CombinedType        float64
	CombinedPlaceholder float64
	CombinedText        float64
	CombinedVisible     float64

	// XPath fallback.
	XPathID          float64
	XPathName        float64
	XPathAria        float64
	XPathText        float64
	XPathPartialText float64
}

// DefaultWeights is the tuned production table.
func DefaultWeights() Weights {
	return Weights{
		MinConfidence: 0.75,
		MaxCandidates: 10,

		TestAttribute: 0.85,

		ID: 0.82,

		NativeRoleAriaName: 0.97,
		NativeRoleTextName: 0.95,
		NativeRole:         0.93,
		NativeLabel:        0.90,
		NativeTestID:       0.90,
		NativeText:         0.88,
		NativePlaceholder:  0.86,
		NativeTitle:        0.84,

		AriaRoleLabel: 0.95,
		AriaRoleName:  0.90,
		AriaLabel:     0.86,
		AriaRoleTag:   0.76,

		StableAttr:     0.80,
		StableAttrName: 0.84,
		VisibilityBump: 0.02,

		AnchorStableID:        0.90,
		AnchorAriaLabel:       0.86,
		AnchorLandmark:        0.84,
		AnchorSemanticRole:    0.82,
		AnchorComponent:       0.80,
		AnchorSemanticTag:     0.76,
		AnchorScopedPenalty:   0.02,
		AnchorRolePenalty:     0.04,
		AnchorTextPenalty:     0.06,
		AnchorFullPathPenalty: 0.08,

		LayoutState:   0.80,
		LayoutVisible: 0.78,
		LayoutSpatial: 0.76,

		CombinedBase:        0.75,
		CombinedCap:         0.95,
		CombinedRole:        0.05,
		CombinedAriaLabel:   0.05,
		CombinedName:        0.04,
		CombinedType:        0.02,
		CombinedPlaceholder: 0.03,
		CombinedText:        0.03,
		CombinedVisible:     0.02,

		XPathID:          0.80,
		XPathName:        0.78,
		XPathAria:        0.78,
		XPathText:        0.76,
		XPathPartialText: 0.75,
	}
}
