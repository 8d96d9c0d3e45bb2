package selector

import "fmt"

// stableAttrWhitelist is the closed set of attributes whose values tend to
// encode intent rather than presentation.
var stableAttrWhitelist = []string{
	"name", "type", "href", "src", "alt", "value", "for",
	"action", "method", "rel", "target", "autocomplete", "inputmode",
}

// stableAttributeStrategy binds to whitelisted attributes whose values pass
// the stability filter.
type stableAttributeStrategy struct {
	w Weights
}

func (stableAttributeStrategy) Name() string { return "stable-attribute" }

func (s stableAttributeStrategy) Generate(opts Options) []Generated {
	el := opts.Element
	var out []Generated

	for _, attr := range stableAttrWhitelist {
		v := el.Attr(attr)
		if v == "" || !IsStableValue(v) {
			continue
		}

		conf := s.w.StableAttr
		if attr == "name" || attr == "for" {
			conf = s.w.StableAttrName
		}
		sel := attrSelector(el.Tag(), attr, v)
		out = append(out, cssCandidate(
			sel, conf, TypeCSS,
			fmt.Sprintf("Stable attribute %s=%q", attr, v),
		))

		// Visibility-qualified variant disambiguates when the same
		// control exists hidden in a drawer or template.
		if opts.IncludePlaywrightSpecific && el.Visible() {
			out = append(out, pseudoCandidate(
				sel+":visible",
				conf+s.w.VisibilityBump,
				TypePlaywright,
				fmt.Sprintf("Visible %s with %s=%q", el.Tag(), attr, v),
			))
		}
	}
	return out
}
