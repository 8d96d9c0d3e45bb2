// Package selector discovers and ranks robust element locators. Each
// strategy is a stateless generator over a domview.Element; the Generator
// merges, scores, and ranks their output into a stable top-N list.
//
// Generation is error-opaque: it always returns a (possibly empty) ranked
// slice. Per-candidate document query failures degrade that candidate to
// non-unique instead of propagating.
package selector

import (
	"strconv"

	"github.com/probelab/domscout/domview"
	"github.com/probelab/domscout/locator"
)

// Type classifies where a candidate's signal came from.
type Type string

const (
	TypeID         Type = "id"
	TypeTestID     Type = "testid"
	TypeAria       Type = "aria"
	TypeText       Type = "text"
	TypeXPath      Type = "xpath"
	TypeCSS        Type = "css"
	TypePlaywright Type = "playwright"
)

// Generated is one ranked locator candidate. Immutable once produced:
// ranking reorders and filters collections, never mutates candidates.
type Generated struct {
	// Selector is the display form, derived from Locator.
	Selector    string  `json:"selector"`
	Confidence  float64 `json:"confidence"`
	Type        Type    `json:"type"`
	Description string  `json:"description"`
	// IsUnique is set by the scorer from a live structural query.
	IsUnique bool `json:"isUnique"`
	// IsPlaywrightOptimized marks native locators and selectors using
	// test-engine pseudo-classes, which structural queries cannot verify.
	IsPlaywrightOptimized bool `json:"isPlaywrightOptimized"`
	// Locator is the tagged source of truth for execution.
	Locator locator.Spec `json:"locator"`
}

// Options is the input configuration for one generation run.
type Options struct {
	// Element is the target.
	Element domview.Element
	// Document answers uniqueness queries; usually the live page.
	Document domview.Document
	// PrioritizeUniqueness sorts unique candidates before non-unique ones.
	PrioritizeUniqueness bool
	// IncludePlaywrightSpecific enables getBy* and pseudo-class output.
	IncludePlaywrightSpecific bool
	// TestableElementsOnly restricts generation to interactive elements.
	TestableElementsOnly bool
	// AllElements is a whole-page snapshot; only the layout strategy's
	// spatial reasoning needs it.
	AllElements []domview.Element
	// MaxLength drops candidates whose display form exceeds it (0 = off).
	MaxLength int
}

// Strategy produces zero or more candidates from one element. Strategies
// are pure, independent, and callable in any order.
type Strategy interface {
	Name() string
	Generate(opts Options) []Generated
}

// Generator is the canonical strategy registry plus the ranking pipeline.
type Generator struct {
	weights    Weights
	strategies []Strategy
	fallback   Strategy
}

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithWeights overrides the confidence weight table.
func WithWeights(w Weights) GeneratorOption {
	return func(g *Generator) { g.weights = w }
}

// WithStrategies replaces the default strategy set (the XPath fallback is
// kept separate and unaffected).
func WithStrategies(strategies ...Strategy) GeneratorOption {
	return func(g *Generator) { g.strategies = strategies }
}

// NewGenerator builds a Generator with the default strategy registry:
// test-attribute, id, playwright-native, semantic/aria, stable-attribute,
// relational/anchor, layout, and combined — plus the XPath strategy as the
// low-candidate fallback.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{weights: DefaultWeights()}
	for _, o := range opts {
		o(g)
	}
	if g.strategies == nil {
		w := g.weights
		g.strategies = []Strategy{
			testAttributeStrategy{w: w},
			idStrategy{w: w},
			nativeStrategy{w: w},
			ariaStrategy{w: w},
			stableAttributeStrategy{w: w},
			anchorStrategy{w: w},
			layoutStrategy{w: w},
			combinedStrategy{w: w},
		}
	}
	if g.fallback == nil {
		g.fallback = xpathStrategy{w: g.weights}
	}
	return g
}

// Generate runs every strategy, scores uniqueness, and ranks. It never
// returns an error; an empty slice means no candidate cleared the floor.
func (g *Generator) Generate(opts Options) []Generated {
	if opts.Element == nil {
		return nil
	}
	if opts.TestableElementsOnly && !Testable(opts.Element) {
		return nil
	}

	var all []Generated
	for _, s := range g.strategies {
		all = append(all, s.Generate(opts)...)
	}

	scoreUniqueness(opts.Document, all)
	ranked := rank(all, opts, g.weights)

	// XPath is a fallback, not a peer: only consulted when the rest of
	// the registry produced too few viable candidates.
	if len(ranked) < fallbackThreshold {
		extra := g.fallback.Generate(opts)
		scoreUniqueness(opts.Document, extra)
		ranked = rank(append(ranked, extra...), opts, g.weights)
	}
	return ranked
}

// fallbackThreshold is the candidate count under which the XPath fallback
// strategy is invoked.
const fallbackThreshold = 3

// interactiveTags are element tags considered directly actionable.
var interactiveTags = map[string]bool{
	"a": true, "button": true, "input": true, "select": true, "textarea": true,
}

// interactiveRoles are ARIA roles that make any element actionable.
var interactiveRoles = map[string]bool{
	"button": true, "link": true, "checkbox": true, "radio": true,
	"textbox": true, "combobox": true, "searchbox": true, "switch": true,
	"menuitem": true, "tab": true, "option": true, "slider": true,
}

// Testable reports whether an element is a sensible automation target.
func Testable(el domview.Element) bool {
	if interactiveTags[el.Tag()] {
		return true
	}
	if interactiveRoles[el.Attr("role")] {
		return true
	}
	for _, attr := range testIDAttributes {
		if el.HasAttr(attr) {
			return true
		}
	}
	// Positive tabindex opts an element into the tab order; 0 and -1 only
	// adjust focus of something already interactive.
	if ti, err := strconv.Atoi(el.Attr("tabindex")); err == nil && ti > 0 {
		return true
	}
	return el.HasAttr("onclick") || el.HasAttr("contenteditable")
}
