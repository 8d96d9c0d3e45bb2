package selector

import (
	"fmt"
	"strings"

	"github.com/probelab/domscout/domview"
)

// maxAnchorDepth bounds the ancestor walk. Past a handful of hops the
// relationship stops being meaningful and the selector gets brittle.
const maxAnchorDepth = 5

// landmarkRoles are container roles worth anchoring to.
var landmarkRoles = map[string]bool{
	"navigation": true, "main": true, "banner": true, "contentinfo": true,
	"complementary": true, "search": true, "form": true, "region": true,
	"dialog": true, "toolbar": true,
}

// semanticContainerTags are tags that delimit a page region on their own.
var semanticContainerTags = map[string]bool{
	"nav": true, "main": true, "header": true, "footer": true,
	"aside": true, "form": true, "section": true, "article": true,
	"table": true, "dialog": true,
}

// componentAttributes mark framework component boundaries.
var componentAttributes = []string{
	"data-component", "data-section", "data-module", "data-testid",
}

// StableAnchor is a nearby ancestor stable enough to scope selectors under.
type StableAnchor struct {
	Anchor         domview.Element
	AnchorSelector string
	// PathToElement is the tag chain from the anchor down to (and
	// including) the target element.
	PathToElement []string
	Confidence    float64
}

// anchorStrategy scopes the target under the nearest stable ancestor. The
// derived selectors trade a little confidence for resilience to sibling
// churn around the element itself.
type anchorStrategy struct {
	w Weights
}

func (anchorStrategy) Name() string { return "relational-anchor" }

// FindStableAnchor walks up to maxAnchorDepth ancestors looking for one
// worth scoping under, strongest signal first at each hop: a stable id, an
// aria-label, a labelled landmark role, a semantic container with a role, a
// component attribute, then a bare semantic container. Returns nil when no
// ancestor qualifies.
func FindStableAnchor(el domview.Element, w Weights) *StableAnchor {
	path := []string{el.Tag()}
	cur := el.Parent()
	for depth := 0; depth < maxAnchorDepth && cur != nil; depth++ {
		if a := classifyAnchor(cur, w); a != nil {
			a.PathToElement = path
			return a
		}
		path = append([]string{cur.Tag()}, path...)
		cur = cur.Parent()
	}
	return nil
}

func classifyAnchor(el domview.Element, w Weights) *StableAnchor {
	if id := el.Attr("id"); id != "" && !IsGeneratedID(id) {
		return &StableAnchor{Anchor: el, AnchorSelector: "#" + id, Confidence: w.AnchorStableID}
	}
	label := el.Attr("aria-label")
	if label != "" && IsStableValue(label) && len(label) < 50 {
		return &StableAnchor{
			Anchor:         el,
			AnchorSelector: attrSelector("", "aria-label", label),
			Confidence:     w.AnchorAriaLabel,
		}
	}
	// Landmark regions anchor only when labelled; a bare landmark role
	// repeats across page sections and scopes nothing.
	if role := el.Attr("role"); landmarkRoles[role] && label != "" {
		return &StableAnchor{
			Anchor:         el,
			AnchorSelector: attrSelector(el.Tag(), "role", role),
			Confidence:     w.AnchorLandmark,
		}
	}
	if role := el.Attr("role"); role != "" && semanticContainerTags[el.Tag()] {
		return &StableAnchor{
			Anchor:         el,
			AnchorSelector: attrSelector(el.Tag(), "role", role),
			Confidence:     w.AnchorSemanticRole,
		}
	}
	for _, attr := range componentAttributes {
		if v := el.Attr(attr); v != "" && IsStableValue(v) {
			return &StableAnchor{
				Anchor:         el,
				AnchorSelector: attrSelector("", attr, v),
				Confidence:     w.AnchorComponent,
			}
		}
	}
	if semanticContainerTags[el.Tag()] {
		return &StableAnchor{Anchor: el, AnchorSelector: el.Tag(), Confidence: w.AnchorSemanticTag}
	}
	return nil
}

func (s anchorStrategy) Generate(opts Options) []Generated {
	el := opts.Element
	anchor := FindStableAnchor(el, s.w)
	if anchor == nil {
		return nil
	}

	var out []Generated
	tag := el.Tag()

	// Scoped descendant; direct child when the anchor is the parent.
	combinator := " "
	if len(anchor.PathToElement) == 1 {
		combinator = " > "
	}
	out = append(out, cssCandidate(
		anchor.AnchorSelector+combinator+tag,
		anchor.Confidence-s.w.AnchorScopedPenalty,
		TypeCSS,
		fmt.Sprintf("%s scoped under %s", tag, anchor.AnchorSelector),
	))

	if role := el.Attr("role"); role != "" {
		out = append(out, cssCandidate(
			anchor.AnchorSelector+" "+attrSelector(tag, "role", role),
			anchor.Confidence-s.w.AnchorRolePenalty,
			TypeCSS,
			fmt.Sprintf("%s role %s under %s", tag, role, anchor.AnchorSelector),
		))
	}

	if opts.IncludePlaywrightSpecific {
		if text := shortText(el.Text(), maxLocatorText); text != "" {
			out = append(out, pseudoCandidate(
				fmt.Sprintf(`%s %s:has-text(%q)`, anchor.AnchorSelector, tag, text),
				anchor.Confidence-s.w.AnchorTextPenalty,
				TypeText,
				fmt.Sprintf("%s containing %q under %s", tag, text, anchor.AnchorSelector),
			))
		}
	}

	if n := len(anchor.PathToElement); n >= 2 && n <= 4 {
		out = append(out, cssCandidate(
			anchor.AnchorSelector+" > "+strings.Join(anchor.PathToElement, " > "),
			anchor.Confidence-s.w.AnchorFullPathPenalty,
			TypeCSS,
			fmt.Sprintf("Full path from %s", anchor.AnchorSelector),
		))
	}

	return out
}
