package selector

import (
	"fmt"

	"github.com/probelab/domscout/domview"
)

// stateAttributes describe a control's current condition; binding to them
// selects the element in a specific state, which is often exactly what a
// test step wants.
var stateAttributes = []string{
	"disabled", "checked", "selected", "readonly", "required",
	"aria-expanded", "aria-selected", "aria-checked", "aria-pressed",
	"aria-disabled", "aria-current",
}

// spatialReferenceTags can act as visual reference points for :near-style
// selectors.
var spatialReferenceTags = map[string]bool{
	"label": true, "button": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

const maxSpatialCandidates = 2

// layoutStrategy produces test-engine pseudo-class selectors from state,
// visibility, and spatial relationships. Everything here needs an engine
// that understands the pseudo-classes, so the whole strategy is gated on
// IncludePlaywrightSpecific.
type layoutStrategy struct {
	w Weights
}

func (layoutStrategy) Name() string { return "layout" }

func (s layoutStrategy) Generate(opts Options) []Generated {
	if !opts.IncludePlaywrightSpecific {
		return nil
	}
	el := opts.Element
	var out []Generated

	for _, attr := range stateAttributes {
		if !el.HasAttr(attr) {
			continue
		}
		sel := attrBoolSelector(el, attr)
		out = append(out, pseudoCandidate(
			sel+":visible",
			s.w.LayoutState,
			TypeCSS,
			fmt.Sprintf("Visible %s with state %s", el.Tag(), attr),
		))
		break
	}

	if el.Visible() {
		if typ := el.Attr("type"); typ != "" {
			out = append(out, pseudoCandidate(
				attrSelector(el.Tag(), "type", typ)+":visible",
				s.w.LayoutVisible,
				TypeCSS,
				fmt.Sprintf("Visible %s of type %s", el.Tag(), typ),
			))
		}
	}

	out = append(out, s.spatial(el, opts.AllElements)...)
	return out
}

// attrBoolSelector renders boolean attributes bare and valued ones quoted.
func attrBoolSelector(el domview.Element, attr string) string {
	v := el.Attr(attr)
	if v == "" || v == attr {
		return fmt.Sprintf("%s[%s]", el.Tag(), attr)
	}
	return attrSelector(el.Tag(), attr, v)
}

// spatial builds :near / directional selectors against short-texted
// reference elements. It needs the whole-page snapshot and a box for both
// the target and the reference.
func (s layoutStrategy) spatial(el domview.Element, all []domview.Element) []Generated {
	if len(all) == 0 || el.Box().Empty() {
		return nil
	}
	tx, ty := el.Box().Center()

	var out []Generated
	for _, ref := range all {
		if len(out) >= maxSpatialCandidates {
			break
		}
		if ref == el || !spatialReferenceTags[ref.Tag()] || ref.Box().Empty() {
			continue
		}
		text := shortText(ref.Text(), 30)
		if text == "" {
			continue
		}

		rx, ry := ref.Box().Center()
		dx, dy := tx-rx, ty-ry
		if abs(dx) > 200 || abs(dy) > 200 {
			continue
		}
		relation := "near"
		switch {
		case dx > 40 && abs(dy) < 30:
			relation = "right-of"
		case dx < -40 && abs(dy) < 30:
			relation = "left-of"
		case dy > 40 && abs(dx) < 60:
			relation = "below"
		case dy < -40 && abs(dx) < 60:
			relation = "above"
		}

		out = append(out, pseudoCandidate(
			fmt.Sprintf(`%s:%s(:text(%q))`, el.Tag(), relation, text),
			s.w.LayoutSpatial,
			TypeCSS,
			fmt.Sprintf("%s %s %q", el.Tag(), relation, text),
		))
	}
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
